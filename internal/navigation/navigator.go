// Package navigation decides which screen bundle a signed-in user lands on.
//
// Resolve is a pure function from a user's role string to a Target: either
// one navigator, or a role-selection screen listing the roles held. Router
// layers the launch/login/logout state machine and the selection stack on
// top of it.
package navigation

import "github.com/roach88/smartfarm/internal/domain"

// Navigator is a named bundle of screens tied to one role.
type Navigator uint8

const (
	NavigatorAuth Navigator = iota
	NavigatorBuyer
	NavigatorFarmer
	NavigatorAdmin
	// NavigatorSuperAdmin is the full-access bundle: farmer, buyer, and
	// admin screens together.
	NavigatorSuperAdmin
)

var navigatorNames = map[Navigator]string{
	NavigatorAuth:       "auth",
	NavigatorBuyer:      "buyer",
	NavigatorFarmer:     "farmer",
	NavigatorAdmin:      "admin",
	NavigatorSuperAdmin: "superadmin",
}

func (n Navigator) String() string {
	if s, ok := navigatorNames[n]; ok {
		return s
	}
	return "unknown"
}

// NavigatorFor maps a role to its navigator. Unknown roles get the buyer
// navigator.
func NavigatorFor(r domain.Role) Navigator {
	switch r {
	case domain.RoleFarmer:
		return NavigatorFarmer
	case domain.RoleAdmin:
		return NavigatorAdmin
	case domain.RoleSuperAdmin:
		return NavigatorSuperAdmin
	default:
		return NavigatorBuyer
	}
}

// Screen names a screen within a navigator.
type Screen string

const (
	ScreenLogin          Screen = "Login"
	ScreenSignup         Screen = "Signup"
	ScreenForgotPassword Screen = "ForgotPassword"
	ScreenResetPassword  Screen = "ResetPassword"

	ScreenProfile     Screen = "Profile"
	ScreenEditProfile Screen = "EditProfile"

	ScreenMyCrops            Screen = "MyCrops"
	ScreenAddCrop            Screen = "AddCrop"
	ScreenCropRecommendation Screen = "CropRecommendation"
	ScreenFarmerProfileSetup Screen = "FarmerProfileSetup"

	ScreenMarketplace       Screen = "Marketplace"
	ScreenCropDetailBuyer   Screen = "CropDetailBuyer"
	ScreenMyOrders          Screen = "MyOrders"
	ScreenBuyerProfileSetup Screen = "BuyerProfileSetup"

	ScreenAdminDashboard Screen = "AdminDashboard"
	ScreenUserManagement Screen = "UserManagement"
	ScreenUpdateRole     Screen = "UpdateRole"
	ScreenPendingCrops   Screen = "PendingCrops"
)

var screens = map[Navigator][]Screen{
	NavigatorAuth: {ScreenLogin, ScreenSignup, ScreenForgotPassword, ScreenResetPassword},
	NavigatorFarmer: {
		ScreenMyCrops, ScreenAddCrop, ScreenCropRecommendation,
		ScreenProfile, ScreenEditProfile, ScreenFarmerProfileSetup,
	},
	NavigatorBuyer: {
		ScreenMarketplace, ScreenCropDetailBuyer, ScreenMyOrders,
		ScreenProfile, ScreenEditProfile, ScreenBuyerProfileSetup,
	},
	NavigatorAdmin: {
		ScreenAdminDashboard, ScreenUserManagement, ScreenUpdateRole, ScreenPendingCrops,
		ScreenProfile, ScreenEditProfile,
	},
	NavigatorSuperAdmin: {
		ScreenMyCrops, ScreenAddCrop, ScreenCropRecommendation,
		ScreenMarketplace, ScreenCropDetailBuyer, ScreenMyOrders,
		ScreenAdminDashboard, ScreenUserManagement, ScreenUpdateRole, ScreenPendingCrops,
		ScreenProfile, ScreenEditProfile, ScreenFarmerProfileSetup, ScreenBuyerProfileSetup,
	},
}

// Screens returns the screen catalog of a navigator.
func Screens(n Navigator) []Screen {
	return append([]Screen(nil), screens[n]...)
}

// HasScreen reports whether s is reachable from n.
func HasScreen(n Navigator, s Screen) bool {
	for _, held := range screens[n] {
		if held == s {
			return true
		}
	}
	return false
}
