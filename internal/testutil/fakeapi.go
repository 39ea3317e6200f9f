// Package testutil provides an in-process Smart Farming REST API for tests.
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/roach88/smartfarm/internal/domain"
)

// BasePath is where the fake mounts the API; URL includes it.
const BasePath = "/smartfarming/api"

// Request is one recorded inbound request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          []byte
}

type account struct {
	user     domain.User
	password string
	farmer   *domain.FarmerProfile
	buyer    *domain.BuyerProfile
}

type claims struct {
	Generation int `json:"gen"`
	jwt.RegisteredClaims
}

// FakeAPI is an echo server implementing the endpoints the client uses,
// with HS256 tokens and in-memory records.
type FakeAPI struct {
	server *httptest.Server
	secret []byte
	ids    Sequence

	mu            sync.Mutex
	generation    int
	accounts      map[string]*account
	crops         []domain.Crop
	orders        []domain.Order
	images        map[int64][]byte
	resetTokens   map[string]string
	failProfile   int
	rejectProfile int
	requests      []Request
}

// NewFakeAPI starts a fake API that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		secret:      []byte("fake-api-secret"),
		accounts:    make(map[string]*account),
		images:      make(map[int64][]byte),
		resetTokens: make(map[string]string),
	}
	f.server = httptest.NewServer(f.router())
	t.Cleanup(f.server.Close)
	return f
}

// URL is the API base URL.
func (f *FakeAPI) URL() string {
	return f.server.URL + BasePath
}

// AddUser registers an account and returns the stored user with its ID.
func (f *FakeAPI) AddUser(u domain.User, password string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	u.ID = f.ids.Next()
	u.Password = ""
	f.accounts[u.MobileNumber] = &account{user: u, password: password}
	return u
}

// User returns the stored user for a mobile number.
func (f *FakeAPI) User(mobile string) (domain.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[mobile]
	if !ok {
		return domain.User{}, false
	}
	return acc.user, true
}

// AddCrop stores a crop owned by the farmer with the given mobile number.
func (f *FakeAPI) AddCrop(owner string, c domain.Crop) domain.Crop {
	f.mu.Lock()
	defer f.mu.Unlock()

	c.ID = f.ids.Next()
	if acc, ok := f.accounts[owner]; ok {
		c.Farmer = f.farmerOf(acc)
	}
	if c.Status == "" {
		c.Status = domain.CropPending
	}
	f.crops = append(f.crops, c)
	return c
}

// Crop returns a stored crop by ID.
func (f *FakeAPI) Crop(id int64) (domain.Crop, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.crops {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Crop{}, false
}

// Image returns the bytes uploaded for a crop.
func (f *FakeAPI) Image(cropID int64) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images[cropID]
}

// Token mints an access token for the account with the given mobile
// number, valid for ttl. A negative ttl yields an expired token.
func (f *FakeAPI) Token(mobile string, ttl time.Duration) string {
	f.mu.Lock()
	var id int64
	if acc, ok := f.accounts[mobile]; ok {
		id = acc.user.ID
	}
	gen := f.generation
	f.mu.Unlock()
	return f.sign(id, gen, ttl)
}

// RevokeTokens invalidates every token issued so far.
func (f *FakeAPI) RevokeTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
}

// FailProfile makes the next n GET /users/me requests fail with 500.
func (f *FakeAPI) FailProfile(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failProfile = n
}

// RejectProfile makes the next n GET /users/me requests fail with 401.
func (f *FakeAPI) RejectProfile(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectProfile = n
}

// ResetToken returns the pending password-reset token for mobile.
func (f *FakeAPI) ResetToken(mobile string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, m := range f.resetTokens {
		if m == mobile {
			return tok
		}
	}
	return ""
}

// Requests returns the recorded requests in arrival order.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Paths returns "METHOD path" for each recorded request, with BasePath
// stripped.
func (f *FakeAPI) Paths() []string {
	reqs := f.Requests()
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.Method + " " + r.Path
	}
	return out
}

func (f *FakeAPI) sign(userID int64, gen int, ttl time.Duration) string {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Generation: gen,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := tok.SignedString(f.secret)
	if err != nil {
		panic(fmt.Sprintf("sign fake token: %v", err))
	}
	return signed
}

type message struct {
	Message string `json:"message"`
}

func (f *FakeAPI) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := http.StatusInternalServerError, err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code, msg = he.Code, fmt.Sprint(he.Message)
		}
		_ = c.JSON(code, message{Message: msg})
	}
	e.Use(f.record)

	g := e.Group(BasePath)
	g.POST("/auth/login", f.login)
	g.POST("/auth/signup", f.signup)
	g.POST("/auth/request-password-reset", f.requestReset)
	g.POST("/auth/reset-password", f.resetPassword)

	a := g.Group("", f.authenticate)
	a.GET("/users/me", f.me)
	a.PUT("/users/edit", f.editUser)
	a.GET("/users", f.listUsers, requireAdmin)
	a.DELETE("/users/:id", f.deleteUser, requireAdmin)
	a.GET("/farmer/profile", f.getFarmerProfile)
	a.POST("/farmer/profile", f.saveFarmerProfile)
	a.GET("/buyer/profile", f.getBuyerProfile)
	a.POST("/buyer/profile", f.saveBuyerProfile)
	a.POST("/crops", f.createCrop)
	a.POST("/crops/:id/image", f.uploadImage)
	a.GET("/crops/my", f.myCrops)
	a.GET("/crops/approved", f.approvedCrops)
	a.POST("/recommendation", f.recommend)
	a.POST("/orders", f.placeOrder)
	a.GET("/orders/my", f.myOrders)
	a.POST("/admin/approve-crop/:id", f.approveCrop, requireAdmin)
	a.POST("/admin/update-role", f.updateRole, requireAdmin)
	return e
}

func (f *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		f.mu.Lock()
		f.requests = append(f.requests, Request{
			Method:        req.Method,
			Path:          strings.TrimPrefix(req.URL.Path, BasePath),
			Authorization: req.Header.Get(echo.HeaderAuthorization),
			RequestID:     req.Header.Get(echo.HeaderXRequestID),
			ContentType:   req.Header.Get(echo.HeaderContentType),
			Body:          body,
		})
		f.mu.Unlock()
		return next(c)
	}
}

func (f *FakeAPI) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		var cl claims
		tok, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
			return f.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		f.mu.Lock()
		acc, exists := f.byID(cl.Subject)
		current := cl.Generation == f.generation
		f.mu.Unlock()
		if !exists || !current {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set("account", acc)
		return next(c)
	}
}

// byID finds an account by token subject. Callers hold f.mu.
func (f *FakeAPI) byID(subject string) (*account, bool) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, false
	}
	for _, acc := range f.accounts {
		if acc.user.ID == id {
			return acc, true
		}
	}
	return nil, false
}

func accountOf(c echo.Context) *account {
	acc, _ := c.Get("account").(*account)
	return acc
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		set := accountOf(c).user.RoleSet()
		if !set.Has(domain.RoleAdmin) && !set.Has(domain.RoleSuperAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, "Access denied")
		}
		return next(c)
	}
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

func (f *FakeAPI) login(c echo.Context) error {
	var req domain.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	acc, ok := f.accounts[req.MobileNumber]
	gen := f.generation
	f.mu.Unlock()
	if !ok || acc.password != req.Password {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid mobile number or password")
	}

	return c.JSON(http.StatusOK, domain.LoginResponse{
		AccessToken:  f.sign(acc.user.ID, gen, time.Hour),
		RefreshToken: f.sign(acc.user.ID, gen, 24*time.Hour),
		Message:      "Login successful",
	})
}

func (f *FakeAPI) signup(c echo.Context) error {
	var req domain.SignupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	_, exists := f.accounts[req.MobileNumber]
	f.mu.Unlock()
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Mobile number already registered")
	}

	f.AddUser(domain.User{
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Roles:        domain.StringPtr("BUYER"),
	}, req.Password)
	return c.JSON(http.StatusOK, message{Message: "User registered successfully"})
}

func (f *FakeAPI) requestReset(c echo.Context) error {
	var req domain.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[req.MobileNumber]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	tok := fmt.Sprintf("reset-%d", f.ids.Next())
	f.resetTokens[tok] = req.MobileNumber
	return c.JSON(http.StatusOK, message{Message: "Password reset token sent"})
}

func (f *FakeAPI) resetPassword(c echo.Context) error {
	var req domain.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	mobile, ok := f.resetTokens[req.Token]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired reset token")
	}
	delete(f.resetTokens, req.Token)
	f.accounts[mobile].password = req.NewPassword
	return c.JSON(http.StatusOK, message{Message: "Password reset successful"})
}

func (f *FakeAPI) me(c echo.Context) error {
	f.mu.Lock()
	if f.failProfile > 0 {
		f.failProfile--
		f.mu.Unlock()
		return echo.NewHTTPError(http.StatusInternalServerError, "Profile service unavailable")
	}
	if f.rejectProfile > 0 {
		f.rejectProfile--
		f.mu.Unlock()
		return echo.NewHTTPError(http.StatusUnauthorized, "Session expired")
	}
	user := accountOf(c).user
	f.mu.Unlock()
	return c.JSON(http.StatusOK, user)
}

func (f *FakeAPI) editUser(c echo.Context) error {
	var req domain.UserEditRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	acc := accountOf(c)
	acc.user.Name = req.Name
	if req.MobileNumber != "" && req.MobileNumber != acc.user.MobileNumber {
		delete(f.accounts, acc.user.MobileNumber)
		acc.user.MobileNumber = req.MobileNumber
		f.accounts[req.MobileNumber] = acc
	}
	return c.JSON(http.StatusOK, message{Message: "Profile updated successfully"})
}

func (f *FakeAPI) listUsers(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]domain.User, 0, len(f.accounts))
	for _, acc := range f.accounts {
		users = append(users, acc.user)
	}
	sortUsers(users)
	return c.JSON(http.StatusOK, users)
}

func sortUsers(users []domain.User) {
	for i := 1; i < len(users); i++ {
		for j := i; j > 0 && users[j].ID < users[j-1].ID; j-- {
			users[j], users[j-1] = users[j-1], users[j]
		}
	}
}

func (f *FakeAPI) deleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for mobile, acc := range f.accounts {
		if acc.user.ID == id {
			delete(f.accounts, mobile)
			return c.JSON(http.StatusOK, message{Message: "User deleted successfully"})
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "User not found")
}

// farmerOf returns the account's farmer profile, creating an empty one.
// Callers hold f.mu.
func (f *FakeAPI) farmerOf(acc *account) *domain.FarmerProfile {
	if acc.farmer == nil {
		u := acc.user
		acc.farmer = &domain.FarmerProfile{ID: f.ids.Next(), User: &u}
	}
	return acc.farmer
}

func (f *FakeAPI) getFarmerProfile(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc := accountOf(c)
	if acc.farmer == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Farmer profile not found")
	}
	return c.JSON(http.StatusOK, acc.farmer)
}

func (f *FakeAPI) saveFarmerProfile(c echo.Context) error {
	var req domain.FarmerProfileRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.farmerOf(accountOf(c))
	p.Address, p.District, p.State = req.Address, req.District, req.State
	p.LandSize, p.SoilType = req.LandSize, req.SoilType
	return c.JSON(http.StatusOK, p)
}

func (f *FakeAPI) getBuyerProfile(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc := accountOf(c)
	if acc.buyer == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Buyer profile not found")
	}
	return c.JSON(http.StatusOK, acc.buyer)
}

func (f *FakeAPI) saveBuyerProfile(c echo.Context) error {
	var req domain.BuyerProfileRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	acc := accountOf(c)
	if acc.buyer == nil {
		u := acc.user
		acc.buyer = &domain.BuyerProfile{ID: f.ids.Next(), User: &u}
	}
	acc.buyer.Address = req.Address
	return c.JSON(http.StatusOK, acc.buyer)
}

func (f *FakeAPI) createCrop(c echo.Context) error {
	var req domain.CropCreateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	crop := domain.Crop{
		ID:           f.ids.Next(),
		Farmer:       f.farmerOf(accountOf(c)),
		CropName:     req.CropName,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		HarvestDate:  req.HarvestDate,
		Status:       domain.CropPending,
	}
	f.crops = append(f.crops, crop)
	return c.JSON(http.StatusOK, crop)
}

func (f *FakeAPI) uploadImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image is required")
	}
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.crops {
		if f.crops[i].ID == id {
			url := fmt.Sprintf("/uploads/%s", fh.Filename)
			f.crops[i].ImageURL = &url
			f.images[id] = data
			return c.JSON(http.StatusOK, map[string]string{"imageUrl": url})
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Crop not found")
}

func (f *FakeAPI) myCrops(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc := accountOf(c)
	out := []domain.Crop{}
	for _, crop := range f.crops {
		if acc.farmer != nil && crop.Farmer == acc.farmer {
			out = append(out, crop)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (f *FakeAPI) approvedCrops(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := domain.FilterCrops(f.crops, domain.CropApproved)
	if out == nil {
		out = []domain.Crop{}
	}
	return c.JSON(http.StatusOK, out)
}

func (f *FakeAPI) recommend(c echo.Context) error {
	var req domain.CropRecommendationRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	recs := map[string][]string{
		"Kharif": {"Rice", "Cotton", "Soybean"},
		"Rabi":   {"Wheat", "Mustard", "Gram"},
		"Zaid":   {"Watermelon", "Cucumber"},
	}[req.Season]
	return c.JSON(http.StatusOK, map[string]any{
		"recommendations": recs,
		"soilType":        req.SoilType,
	})
}

func (f *FakeAPI) placeOrder(c echo.Context) error {
	var req domain.OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.crops {
		crop := f.crops[i]
		if crop.ID != req.CropID {
			continue
		}
		if crop.Status != domain.CropApproved {
			return echo.NewHTTPError(http.StatusBadRequest, "Crop is not available")
		}
		if req.Quantity > crop.Quantity {
			return echo.NewHTTPError(http.StatusBadRequest, "Insufficient quantity available")
		}
		f.crops[i].Quantity -= req.Quantity

		acc := accountOf(c)
		u := acc.user
		order := domain.Order{
			ID:          f.ids.Next(),
			Buyer:       &domain.BuyerProfile{User: &u},
			Crop:        &crop,
			Quantity:    req.Quantity,
			TotalAmount: req.Quantity * crop.PricePerUnit,
			Status:      "PLACED",
			CreatedAt:   "2025-03-07T10:30:00",
		}
		f.orders = append(f.orders, order)
		return c.JSON(http.StatusOK, order)
	}
	return echo.NewHTTPError(http.StatusNotFound, "Crop not found")
}

func (f *FakeAPI) myOrders(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := accountOf(c).user.ID
	out := []domain.Order{}
	for _, o := range f.orders {
		if o.Buyer != nil && o.Buyer.User != nil && o.Buyer.User.ID == id {
			out = append(out, o)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (f *FakeAPI) approveCrop(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.crops {
		if f.crops[i].ID == id {
			f.crops[i].Status = domain.CropApproved
			return c.JSON(http.StatusOK, message{Message: "Crop approved successfully"})
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Crop not found")
}

func (f *FakeAPI) updateRole(c echo.Context) error {
	var req domain.RoleUpdateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[req.MobileNumber]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	acc.user.Roles = domain.StringPtr(req.Roles)
	return c.JSON(http.StatusOK, message{Message: "Roles updated successfully"})
}
