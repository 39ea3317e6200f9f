package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/smartfarm/internal/api"
	"github.com/roach88/smartfarm/internal/domain"
)

type call struct {
	Method string
	Path   string
	Body   string
	File   *api.File
}

// fakeDoer records calls and answers each with reply, decoded into out.
type fakeDoer struct {
	calls []call
	reply string
	err   error
}

func (f *fakeDoer) Do(_ context.Context, method, path string, in, out any) error {
	c := call{Method: method, Path: path}
	if in != nil {
		data, _ := json.Marshal(in)
		c.Body = string(data)
	}
	f.calls = append(f.calls, c)
	return f.answer(out)
}

func (f *fakeDoer) PostMultipart(_ context.Context, path string, file api.File, out any) error {
	f.calls = append(f.calls, call{Method: http.MethodPost, Path: path, File: &file})
	return f.answer(out)
}

func (f *fakeDoer) answer(out any) error {
	if f.err != nil {
		return f.err
	}
	if out == nil || f.reply == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.reply), out)
}

func (f *fakeDoer) only(t *testing.T) call {
	t.Helper()
	require.Len(t, f.calls, 1, "each service method issues exactly one request")
	return f.calls[0]
}

func TestEndpoints(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		invoke func(d *fakeDoer) error
		method string
		path   string
		body   string
	}{
		{"login", func(d *fakeDoer) error {
			_, err := NewAuthService(d).Login(ctx, domain.LoginRequest{MobileNumber: "9876543210", Password: "pw1234"})
			return err
		}, "POST", "/auth/login", `{"mobileNumber":"9876543210","password":"pw1234"}`},
		{"signup", func(d *fakeDoer) error {
			_, err := NewAuthService(d).Signup(ctx, domain.SignupRequest{Name: "A", MobileNumber: "1", Email: "e", Password: "p"})
			return err
		}, "POST", "/auth/signup", `{"name":"A","mobileNumber":"1","email":"e","password":"p"}`},
		{"request password reset", func(d *fakeDoer) error {
			_, err := NewAuthService(d).RequestPasswordReset(ctx, "9876543210")
			return err
		}, "POST", "/auth/request-password-reset", `{"mobileNumber":"9876543210"}`},
		{"reset password", func(d *fakeDoer) error {
			_, err := NewAuthService(d).ResetPassword(ctx, "tok", "newpass")
			return err
		}, "POST", "/auth/reset-password", `{"token":"tok","newPassword":"newpass"}`},
		{"my profile", func(d *fakeDoer) error {
			_, err := NewUserService(d).GetMyProfile(ctx)
			return err
		}, "GET", "/users/me", ""},
		{"edit user", func(d *fakeDoer) error {
			_, err := NewUserService(d).EditUser(ctx, domain.UserEditRequest{MobileNumber: "9876543210", Name: "B"})
			return err
		}, "PUT", "/users/edit", `{"mobileNumber":"9876543210","name":"B"}`},
		{"all users", func(d *fakeDoer) error {
			_, err := NewUserService(d).GetAllUsers(ctx)
			return err
		}, "GET", "/users", ""},
		{"delete user", func(d *fakeDoer) error {
			_, err := NewUserService(d).DeleteUser(ctx, 12)
			return err
		}, "DELETE", "/users/12", ""},
		{"get farmer profile", func(d *fakeDoer) error {
			_, err := NewFarmerService(d).GetFarmerProfile(ctx)
			return err
		}, "GET", "/farmer/profile", ""},
		{"save farmer profile", func(d *fakeDoer) error {
			_, err := NewFarmerService(d).SaveFarmerProfile(ctx, domain.FarmerProfileRequest{Address: "a", District: "d", State: "s", LandSize: 2.5, SoilType: "Clay"})
			return err
		}, "POST", "/farmer/profile", `{"address":"a","district":"d","state":"s","landSize":2.5,"soilType":"Clay"}`},
		{"get buyer profile", func(d *fakeDoer) error {
			_, err := NewBuyerService(d).GetBuyerProfile(ctx)
			return err
		}, "GET", "/buyer/profile", ""},
		{"save buyer profile", func(d *fakeDoer) error {
			_, err := NewBuyerService(d).SaveBuyerProfile(ctx, domain.BuyerProfileRequest{Address: "Pune"})
			return err
		}, "POST", "/buyer/profile", `{"address":"Pune"}`},
		{"create crop", func(d *fakeDoer) error {
			_, err := NewCropService(d).CreateCrop(ctx, domain.CropCreateRequest{CropName: "Rice", Quantity: 10, PricePerUnit: 30, HarvestDate: "2025-01-02"})
			return err
		}, "POST", "/crops", `{"cropName":"Rice","quantity":10,"pricePerUnit":30,"harvestDate":"2025-01-02"}`},
		{"my crops", func(d *fakeDoer) error {
			_, err := NewCropService(d).GetMyCrops(ctx)
			return err
		}, "GET", "/crops/my", ""},
		{"approved crops", func(d *fakeDoer) error {
			_, err := NewCropService(d).GetApprovedCrops(ctx)
			return err
		}, "GET", "/crops/approved", ""},
		{"recommendation", func(d *fakeDoer) error {
			_, err := NewCropService(d).GetCropRecommendation(ctx, domain.CropRecommendationRequest{District: "d", State: "s", SoilType: "Clay", Season: "Rabi"})
			return err
		}, "POST", "/recommendation", `{"district":"d","state":"s","soilType":"Clay","season":"Rabi"}`},
		{"place order", func(d *fakeDoer) error {
			_, err := NewOrderService(d).PlaceOrder(ctx, domain.OrderCreateRequest{CropID: 4, Quantity: 2})
			return err
		}, "POST", "/orders", `{"cropId":4,"quantity":2}`},
		{"my orders", func(d *fakeDoer) error {
			_, err := NewOrderService(d).GetMyOrders(ctx)
			return err
		}, "GET", "/orders/my", ""},
		{"approve crop", func(d *fakeDoer) error {
			_, err := NewAdminService(d).ApproveCrop(ctx, 31)
			return err
		}, "POST", "/admin/approve-crop/31", ""},
		{"update role", func(d *fakeDoer) error {
			_, err := NewAdminService(d).UpdateRole(ctx, domain.RoleUpdateRequest{MobileNumber: "9876543210", Roles: "FARMER,BUYER"})
			return err
		}, "POST", "/admin/update-role", `{"mobileNumber":"9876543210","roles":"FARMER,BUYER"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDoer{}
			require.NoError(t, tt.invoke(d))

			c := d.only(t)
			assert.Equal(t, tt.method, c.Method)
			assert.Equal(t, tt.path, c.Path)
			if tt.body == "" {
				assert.Empty(t, c.Body)
			} else {
				assert.JSONEq(t, tt.body, c.Body)
			}
		})
	}
}

func TestUploadCropImage_Multipart(t *testing.T) {
	d := &fakeDoer{reply: `{"imageUrl":"x"}`}

	_, err := NewCropService(d).UploadCropImage(context.Background(), 8, strings.NewReader("img"))
	require.NoError(t, err)

	c := d.only(t)
	assert.Equal(t, "/crops/8/image", c.Path)
	require.NotNil(t, c.File)
	assert.Equal(t, "image", c.File.Field)
	assert.Equal(t, "crop_8.jpg", c.File.Name)
	assert.Equal(t, "image/jpeg", c.File.ContentType)
	data, _ := io.ReadAll(c.File.Content)
	assert.Equal(t, "img", string(data))
}

func TestLogin_DecodesTokens(t *testing.T) {
	d := &fakeDoer{reply: `{"accessToken":"a1","refreshToken":"r1"}`}

	resp, err := NewAuthService(d).Login(context.Background(), domain.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, "a1", resp.AccessToken)
	assert.Equal(t, "r1", resp.RefreshToken)
}

func TestErrorsPropagateUnchanged(t *testing.T) {
	apiErr := &api.Error{StatusCode: http.StatusConflict, Message: "Mobile number already registered"}
	d := &fakeDoer{err: apiErr}

	_, err := NewAuthService(d).Signup(context.Background(), domain.SignupRequest{})
	assert.Same(t, apiErr, err)

	_, err = NewCropService(d).GetApprovedCrops(context.Background())
	assert.Same(t, apiErr, err)
}
