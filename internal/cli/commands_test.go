package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/smartfarm/internal/domain"
)

const (
	farmerMobile = "9876543210"
	buyerMobile  = "9123456780"
	adminMobile  = "9000000001"
)

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}

func TestHome_SignedOut(t *testing.T) {
	h := newCLIHarness(t)

	out := h.ok("home")

	assertGolden(t, "home_signed_out", out)
	assert.Empty(t, h.api.Requests())
}

func TestHome_SingleRole(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(farmerMobile)

	assertGolden(t, "home_farmer", h.ok("home"))
}

func TestHome_MultiRole(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Asha", farmerMobile, "BUYER,FARMER,ADMIN")
	h.login(farmerMobile)

	assertGolden(t, "home_multi_role", h.ok("home"))
}

func TestHome_JSON(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Asha", farmerMobile, "FARMER,BUYER")
	h.login(farmerMobile)

	env := decodeEnvelope[homeView](t, h.ok("--format", "json", "home"))

	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, "selecting", env.Data.Phase)
	assert.Empty(t, env.Data.Navigator)
	require.Len(t, env.Data.Options, 2)
	assert.Equal(t, "FARMER", env.Data.Options[0].Role)
	assert.Equal(t, "farmer", env.Data.Options[0].Navigator)
	assert.Equal(t, "BUYER", env.Data.Options[1].Role)
}

func TestLogin_PersistsAcrossInvocations(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")

	out := h.ok("login", "-m", farmerMobile, "-p", password)
	assert.Contains(t, out, "Signed in as Ravi (FARMER)")
	assert.Contains(t, out, "Navigator: farmer")
	assert.Equal(t, []string{"POST /auth/login", "GET /users/me"}, h.api.Paths())

	out = h.ok("whoami")
	assert.Contains(t, out, "Name:    Ravi")
	assert.Contains(t, out, "Mobile:  "+farmerMobile)
	assert.Contains(t, out, "Session: expires ")
	assert.Equal(t, "GET /users/me", h.api.Paths()[2])
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")

	res := h.run("login", "-m", farmerMobile, "-p", "wrong-password")

	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "Error [E_API]: Invalid mobile number or password")

	res = h.run("whoami")
	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "You are not signed in")
}

func TestLogin_ValidationBeforeNetwork(t *testing.T) {
	h := newCLIHarness(t)

	res := h.run("login", "-m", "12345", "-p", "x")

	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stdout, "Error [E_VALIDATION]")
	assert.Contains(t, res.Stdout, "  mobileNumber: Please enter a valid 10-digit mobile number")
	assert.Empty(t, h.api.Requests())
	assert.Zero(t, h.built)
}

func TestSignup_ValidationJSON(t *testing.T) {
	h := newCLIHarness(t)

	res := h.run("--format", "json", "signup",
		"--name", " ", "-m", "123", "--email", "nope", "-p", "abc", "--confirm-password", "abd")

	assert.Equal(t, ExitCommandError, res.Code)
	env := decodeEnvelope[any](t, res.Stdout)
	assert.Equal(t, "error", env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)
	details, ok := env.Error.Details.([]any)
	require.True(t, ok)
	assert.Len(t, details, 5)
	assert.Empty(t, h.api.Requests())
}

func TestSignup_SignsIn(t *testing.T) {
	h := newCLIHarness(t)

	out := h.ok("signup", "--name", "Meena", "-m", buyerMobile, "--email", "meena@example.com",
		"-p", password, "--confirm-password", password)

	assert.Contains(t, out, "Signed in as Meena (BUYER)")
	assert.Contains(t, out, "Navigator: buyer")
	assert.Equal(t, []string{"POST /auth/signup", "POST /auth/login", "GET /users/me"}, h.api.Paths())
}

func TestSignup_DuplicateMobile(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")

	res := h.run("signup", "--name", "Ravi", "-m", farmerMobile, "--email", "r@example.com",
		"-p", password, "--confirm-password", password)

	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "Mobile number already registered")
}

func TestLogout(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(farmerMobile)

	assert.Equal(t, "Signed out\n", h.ok("logout"))
	assert.Zero(t, h.backend.Len())

	res := h.run("whoami")
	assert.Equal(t, ExitFailure, res.Code)
}

func TestWhoami_JSONCarriesExpiry(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Asha", farmerMobile, "FARMER, BUYER")
	h.login(farmerMobile)

	env := decodeEnvelope[whoamiView](t, h.ok("--format", "json", "whoami"))

	require.NotNil(t, env.Data.User)
	assert.Equal(t, "Asha", env.Data.User.Name)
	assert.Equal(t, []string{"FARMER", "BUYER"}, env.Data.Roles)
	assert.NotNil(t, env.Data.TokenExpiresAt)
}

func TestRevokedToken_PurgesSession(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(farmerMobile)
	h.api.RevokeTokens()

	res := h.run("crops", "mine")
	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "Error [E_API]")
	assert.Zero(t, h.backend.Len())

	res = h.run("crops", "mine")
	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "You are not signed in")
}

func TestPasswordReset(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")

	assert.Equal(t, "Password reset token sent\n", h.ok("forgot-password", "-m", farmerMobile))

	token := h.api.ResetToken(farmerMobile)
	require.NotEmpty(t, token)
	assert.Equal(t, "Password reset successful\n", h.ok("reset-password", "--token", token, "-p", "newsecret"))

	h.ok("login", "-m", farmerMobile, "-p", "newsecret")
}

func TestResetPassword_Validation(t *testing.T) {
	h := newCLIHarness(t)

	res := h.run("reset-password", "--token", "  ", "-p", "abc")

	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stdout, "token: Reset token is required")
	assert.Contains(t, res.Stdout, "newPassword: Password must be at least 6 characters")
}

func TestUse_MultiRole(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Asha", farmerMobile, "FARMER,BUYER")
	h.login(farmerMobile)

	out := h.ok("use", "farmer")
	assert.Contains(t, out, "Navigator: farmer")
	assert.Contains(t, out, "  MyCrops\n")

	res := h.run("use", "ADMIN")
	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "You do not hold the ADMIN role")

	res = h.run("use", "wizard")
	assert.Equal(t, ExitCommandError, res.Code)
}

func TestUse_SingleRole(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(farmerMobile)

	res := h.run("use", "farmer")

	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "You hold a single role")
}

func TestScreenGating(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(farmerMobile)
	before := len(h.api.Requests())

	res := h.run("orders", "mine")
	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "MyOrders is not available to your role")

	res = h.run("admin", "users")
	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "UserManagement is not available to your role")

	// Only the launch-time profile refreshes reached the API.
	for _, p := range h.api.Paths()[before:] {
		assert.Equal(t, "GET /users/me", p)
	}
}

func TestScreenGating_MultiRoleReachesEveryHeldNavigator(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Asha", farmerMobile, "FARMER,BUYER")
	h.login(farmerMobile)

	assert.Equal(t, "You have not listed any crops yet\n", h.ok("crops", "mine"))
	assert.Equal(t, "No orders yet\n", h.ok("orders", "mine"))
}

func TestProfileEdit(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(farmerMobile)

	out := h.ok("profile", "edit", "--name", "Ravi Kumar")

	assert.Contains(t, out, "Profile updated successfully")
	assert.Contains(t, out, "Name:    Ravi Kumar")
	assert.Contains(t, out, "Mobile:  "+farmerMobile)

	u, ok := h.api.User(farmerMobile)
	require.True(t, ok)
	assert.Equal(t, "Ravi Kumar", u.Name)

	assert.Contains(t, h.ok("profile", "show"), "Name:    Ravi Kumar")
}

func TestProfileEdit_Validation(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(farmerMobile)

	res := h.run("profile", "edit", "-m", "12")

	assert.Equal(t, ExitCommandError, res.Code)
	assert.NotContains(t, h.api.Paths(), "PUT /users/edit")
}

func TestFarmerProfile(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(farmerMobile)

	res := h.run("farmer-profile", "get")
	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "Farmer profile not found")

	res = h.run("farmer-profile", "save", "--address", "Village road", "--district", "Nashik",
		"--state", "Atlantis", "--land-size", "2.5", "--soil-type", "Loamy")
	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stdout, "state: Please select a valid state")

	out := h.ok("farmer-profile", "save", "--address", "Village road", "--district", "Nashik",
		"--state", "Maharashtra", "--land-size", "2.5", "--soil-type", "Loamy")
	assert.Contains(t, out, "Farmer profile saved")
	assert.Contains(t, out, "Land size: 2.5 acres")

	assert.Contains(t, h.ok("farmer-profile", "get"), "District:  Nashik")
}

func TestBuyerProfile(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Meena", buyerMobile, "BUYER")
	h.login(buyerMobile)

	assert.Equal(t, "Buyer profile saved\nAddress: 12 Market St\n",
		h.ok("buyer-profile", "save", "--address", "12 Market St"))
	assert.Equal(t, "Address: 12 Market St\n", h.ok("buyer-profile", "get"))
}

func TestMarketplaceLifecycle(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.addUser("Meena", buyerMobile, "BUYER")
	h.addUser("Root", adminMobile, "ADMIN")

	// Farmer lists a crop with a photo.
	h.login(farmerMobile)
	h.ok("farmer-profile", "save", "--address", "Village road", "--district", "Nashik",
		"--state", "Maharashtra", "--land-size", "3", "--soil-type", "Clay")

	photo := filepath.Join(t.TempDir(), "wheat.jpg")
	require.NoError(t, os.WriteFile(photo, []byte{0xff, 0xd8, 0xff, 0xe0}, 0o600))

	env := decodeEnvelope[addCropView](t, h.ok("--format", "json", "crops", "add",
		"--name", "Wheat", "--quantity", "10", "--price", "40", "--harvest-date", "2025-03-01", "--image", photo))
	require.NotNil(t, env.Data.Crop)
	cropID := env.Data.Crop.ID
	assert.Equal(t, domain.CropPending, env.Data.Crop.Status)
	assert.Equal(t, "/uploads/crop_"+strconv.FormatInt(cropID, 10)+".jpg", env.Data.ImageURL)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0xe0}, h.api.Image(cropID))

	mine := h.ok("crops", "mine")
	assert.Contains(t, mine, "Wheat")
	assert.Contains(t, mine, "₹40.00")
	assert.Contains(t, mine, "01/03/2025")
	assert.Contains(t, mine, "PENDING")

	// Not yet in the marketplace.
	h.login(buyerMobile)
	assert.Equal(t, "No crops available right now\n", h.ok("crops", "market"))

	// Admin approves.
	h.login(adminMobile)
	assert.Equal(t, "Crop approved successfully\n", h.ok("admin", "approve-crop", strconv.FormatInt(cropID, 10)))

	// Buyer orders.
	h.login(buyerMobile)
	market := h.ok("crops", "market")
	assert.Contains(t, market, "Wheat")
	assert.Contains(t, market, "Nashik, Maharashtra")
	assert.Contains(t, market, "APPROVED")

	out := h.ok("orders", "place", "--crop", strconv.FormatInt(cropID, 10), "--quantity", "2")
	assert.Contains(t, out, "placed: 2 x Wheat, total ₹80.00 (PLACED)")

	orders := h.ok("orders", "mine")
	assert.Contains(t, orders, "Wheat")
	assert.Contains(t, orders, "₹80.00")
	assert.Contains(t, orders, "07/03/2025 10:30")

	res := h.run("orders", "place", "--crop", strconv.FormatInt(cropID, 10), "--quantity", "100")
	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "Insufficient quantity available")
}

func TestCropsAdd_Validation(t *testing.T) {
	h := newCLIHarness(t)

	res := h.run("crops", "add", "--name", "Wheat", "--quantity", "0", "--price", "-1")

	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stdout, "quantity: Valid quantity is required")
	assert.Contains(t, res.Stdout, "pricePerUnit: Valid price is required")
	assert.Contains(t, res.Stdout, "harvestDate: Harvest date is required")
	assert.Empty(t, h.api.Requests())
}

func TestCropsRecommend(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(farmerMobile)

	out := h.ok("crops", "recommend", "--district", "Nashik", "--state", "Maharashtra",
		"--soil-type", "Loamy", "--season", "Rabi")
	assert.Equal(t, "Recommended crops:\n  - Wheat\n  - Mustard\n  - Gram\nsoilType: Loamy\n", out)

	res := h.run("crops", "recommend", "--district", "Nashik")
	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stdout, "season")
}

func TestAdminUpdateRole(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Root", adminMobile, "ADMIN")
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(adminMobile)

	assert.Equal(t, "Roles updated successfully\n",
		h.ok("admin", "update-role", "-m", farmerMobile, "--roles", "buyer, farmer"))
	u, _ := h.api.User(farmerMobile)
	require.NotNil(t, u.Roles)
	assert.Equal(t, "FARMER,BUYER", *u.Roles)

	res := h.run("admin", "update-role", "-m", farmerMobile, "--roles", "wizard")
	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stdout, `unknown role "wizard"`)

	res = h.run("admin", "update-role", "-m", farmerMobile, "--roles", " , ")
	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stdout, "roles: User must have at least one role")
}

func TestAdminUsersAndDelete(t *testing.T) {
	h := newCLIHarness(t)
	root := h.addUser("Root", adminMobile, "SUPERADMIN")
	ravi := h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(adminMobile)

	out := h.ok("admin", "users")
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Root")
	assert.Contains(t, out, "SUPERADMIN")
	assert.Contains(t, out, "Ravi")

	env := decodeEnvelope[[]domain.User](t, h.ok("--format", "json", "admin", "users"))
	require.Len(t, env.Data, 2)
	assert.Equal(t, root.ID, env.Data[0].ID)

	assert.Equal(t, "User deleted successfully\n", h.ok("admin", "delete-user", strconv.FormatInt(ravi.ID, 10)))
	_, exists := h.api.User(farmerMobile)
	assert.False(t, exists)

	res := h.run("admin", "delete-user", "99999")
	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stdout, "User not found")
}

func TestAdminDashboard(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Root", adminMobile, "SUPERADMIN")
	h.addUser("Ravi", farmerMobile, "FARMER")
	h.login(adminMobile)
	h.ok("crops", "add", "--name", "Rice", "--quantity", "5", "--price", "30", "--harvest-date", "2025-06-01")

	res := h.run("admin", "dashboard")
	require.Equal(t, ExitSuccess, res.Code, res.Stdout)
	assert.Equal(t, "Users:         2\nCrops:         1\nPending crops: 1\n", res.Stdout)
	assert.Contains(t, res.Stderr, "crops listed by your own account")

	env := decodeEnvelope[pendingView](t, h.ok("--format", "json", "admin", "pending-crops"))
	assert.Equal(t, "crops/my", env.Data.Source)
	require.Len(t, env.Data.Crops, 1)
	assert.Equal(t, "Rice", env.Data.Crops[0].CropName)
}

func TestUsageErrors(t *testing.T) {
	h := newCLIHarness(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing_argument", []string{"admin", "delete-user"}},
		{"bad_id", []string{"admin", "approve-crop", "abc"}},
		{"unknown_flag", []string{"login", "--bogus"}},
		{"extra_argument", []string{"home", "now"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.run(tt.args...)
			assert.Equal(t, ExitCommandError, res.Code)
			assert.Contains(t, res.Stdout, "Error [E_USAGE]")
		})
	}
	assert.Empty(t, h.api.Requests())
}

func TestMetricsFile(t *testing.T) {
	h := newCLIHarness(t)
	h.addUser("Ravi", farmerMobile, "FARMER")
	path := filepath.Join(t.TempDir(), "metrics.prom")

	h.ok("--metrics-file", path, "login", "-m", farmerMobile, "-p", password)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `smartfarm_client_requests_total{method="POST",route="/smartfarming/api/auth/login",status="2xx"} 1`)
}
