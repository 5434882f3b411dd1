package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bothub-api/handlers"
	"bothub-api/helper"
	"bothub-api/middleware"
	"bothub-api/models"
	"bothub-api/repositories"
	"bothub-api/services"
)

type IntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (suite *IntegrationTestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=myuser password=mypassword dbname=bothub_test_db sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		suite.T().Fatal("Failed to connect to test database:", err)
	}

	suite.db = db

	if err := RunSQLFile(db, "../migration/init.sql"); err != nil {
		suite.T().Fatal("Failed to migrate test database:", err)
	}

	suite.setupRouter()
}

func (suite *IntegrationTestSuite) setupRouter() {
	gin.SetMode(gin.TestMode)

	userRepo := repositories.NewUserRepository(suite.db)
	botRepo := repositories.NewBotRepository(suite.db)
	ratingRepo := repositories.NewRatingRepository(suite.db)

	authService := services.NewAuthService(userRepo)
	botService := services.NewBotService(botRepo, userRepo, ratingRepo)
	ratingService := services.NewRatingService(ratingRepo)

	httpHelper := helper.NewHTTPHelper()
	authHandler := handlers.NewAuthHandler(authService, httpHelper)
	botHandler := handlers.NewBotHandler(botService, httpHelper)
	ratingHandler := handlers.NewRatingHandler(ratingService, httpHelper)

	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		v1.GET("/bots", botHandler.ListBots)
		v1.GET("/bots/:id", botHandler.GetBot)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.DELETE("/profile", authHandler.DeleteAccount)

			protected.POST("/bots", botHandler.CreateBot)
			protected.GET("/my-bots", botHandler.GetMyBots)
			protected.DELETE("/bots/:id", botHandler.DeleteBot)

			protected.POST("/ratings", ratingHandler.SubmitRating)
		}
	}

	suite.router = router
}

// RunSQLFile executes the statements of a migration file one by one.
func RunSQLFile(db *gorm.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for _, stmt := range strings.Split(string(content), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

func (suite *IntegrationTestSuite) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			suite.T().Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) register(name, email string) (string, uint) {
	w := suite.request("POST", "/api/v1/auth/register", models.RegisterRequest{
		Name:     name,
		Email:    email,
		Company:  name + " Inc",
		Password: "password123",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp models.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func (suite *IntegrationTestSuite) createBot(token string, req models.CreateBotRequest) uint {
	w := suite.request("POST", "/api/v1/bots", req, token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var bot models.Bot
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &bot))
	return bot.ID
}

func (suite *IntegrationTestSuite) setAverage(botID uint, average float64) {
	err := suite.db.Model(&models.Bot{}).Where("id = ?", botID).
		Update("average_rating", average).Error
	suite.Require().NoError(err)
}

func (suite *IntegrationTestSuite) listBots(query string) models.BotListResponse {
	w := suite.request("GET", "/api/v1/bots?"+query, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var page models.BotListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func (suite *IntegrationTestSuite) botDetail(botID uint) models.BotDetail {
	w := suite.request("GET", fmt.Sprintf("/api/v1/bots/%d", botID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var detail models.BotDetail
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &detail))
	return detail
}

func (suite *IntegrationTestSuite) rate(token string, botID uint, value int) *httptest.ResponseRecorder {
	return suite.request("POST", "/api/v1/ratings", models.SubmitRatingRequest{
		BotID: botID,
		Value: value,
	}, token)
}

func (suite *IntegrationTestSuite) TestAuthFlow() {
	token, _ := suite.register("Alice", "alice@example.com")
	suite.NotEmpty(token)

	// Same email again
	w := suite.request("POST", "/api/v1/auth/register", models.RegisterRequest{
		Name:     "Alice Again",
		Email:    "alice@example.com",
		Password: "password123",
	}, "")
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.request("POST", "/api/v1/auth/login", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request("POST", "/api/v1/auth/login", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}, "")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/profile", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	var user models.User
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))
	suite.Equal("alice@example.com", user.Email)

	w = suite.request("GET", "/api/v1/profile", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestProfileUpdateAndDelete() {
	token, _ := suite.register("Bob", "bob@example.com")
	suite.register("Carol", "carol@example.com")

	// Taking another user's email
	w := suite.request("PUT", "/api/v1/profile", models.UpdateProfileRequest{
		Name:  "Bobby",
		Email: "carol@example.com",
	}, token)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.request("PUT", "/api/v1/profile", models.UpdateProfileRequest{
		Name:    "Bobby",
		Email:   "bob@example.com",
		Company: "Bobby Corp",
	}, token)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("DELETE", "/api/v1/profile", nil, token)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("POST", "/api/v1/auth/login", models.LoginRequest{
		Email:    "bob@example.com",
		Password: "password123",
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// Catalog with C(rating 5, lowest id), A(rating 5), B(unset) and page
// size 2: page one is [C, A] with the tie broken by id, page two is
// [B], and the listing ends with an empty page.
func (suite *IntegrationTestSuite) TestCatalogTieBreakScenario() {
	token, _ := suite.register("Dora", "dora@example.com")

	idC := suite.createBot(token, models.CreateBotRequest{BotName: "ScenarioC"})
	idA := suite.createBot(token, models.CreateBotRequest{BotName: "ScenarioA"})
	idB := suite.createBot(token, models.CreateBotRequest{BotName: "ScenarioB"})

	suite.setAverage(idC, 5)
	suite.setAverage(idA, 5)

	page1 := suite.listBots("q=Scenario&size=2")
	suite.Require().Len(page1.Items, 2)
	suite.Equal(idC, page1.Items[0].ID)
	suite.Equal(idA, page1.Items[1].ID)
	suite.Equal(int64(3), page1.TotalCount)
	suite.Require().NotNil(page1.NextCursor)

	page2 := suite.listBots("q=Scenario&size=2&cursor=" + *page1.NextCursor)
	suite.Require().Len(page2.Items, 1)
	suite.Equal(idB, page2.Items[0].ID)
	suite.Require().NotNil(page2.NextCursor)

	page3 := suite.listBots("q=Scenario&size=2&cursor=" + *page2.NextCursor)
	suite.Empty(page3.Items)
	suite.Nil(page3.NextCursor)
}

func (suite *IntegrationTestSuite) TestPaginationCompleteness() {
	token, _ := suite.register("Eve", "eve@example.com")

	averages := []float64{4.2, 3.7, 0, 4.2, 1.5, 0, 5.0} // 0 = left unset
	type entry struct {
		id  uint
		key float64
	}
	var expected []entry

	for i, avg := range averages {
		id := suite.createBot(token, models.CreateBotRequest{
			BotName: fmt.Sprintf("PageBot%d", i+1),
		})
		if avg > 0 {
			suite.setAverage(id, avg)
		}
		expected = append(expected, entry{id: id, key: avg})
	}

	sort.SliceStable(expected, func(i, j int) bool {
		if expected[i].key != expected[j].key {
			return expected[i].key > expected[j].key
		}
		return expected[i].id < expected[j].id
	})

	var fetched []entry
	cursor := ""
	for {
		query := "q=PageBot&size=3"
		if cursor != "" {
			query += "&cursor=" + cursor
		}
		page := suite.listBots(query)
		suite.Equal(int64(len(averages)), page.TotalCount)
		if len(page.Items) == 0 {
			suite.Nil(page.NextCursor)
			break
		}
		for i := range page.Items {
			fetched = append(fetched, entry{
				id:  page.Items[i].ID,
				key: page.Items[i].RatingSortKey(),
			})
		}
		suite.Require().NotNil(page.NextCursor)
		cursor = *page.NextCursor
	}

	// No duplicates, no omissions, stable order across pages.
	suite.Require().Len(fetched, len(expected))
	for i := range expected {
		suite.Equal(expected[i].id, fetched[i].id, "position %d", i)
	}
}

func (suite *IntegrationTestSuite) TestPrefixFilter() {
	token, _ := suite.register("Frank", "frank@example.com")

	suite.createBot(token, models.CreateBotRequest{BotName: "ChatHelper"})
	suite.createBot(token, models.CreateBotRequest{BotName: "Support Bot"})

	names := func(page models.BotListResponse) []string {
		var out []string
		for _, bot := range page.Items {
			out = append(out, bot.BotName)
		}
		return out
	}

	page := suite.listBots("q=Chat&size=10")
	suite.Contains(names(page), "ChatHelper")
	suite.NotContains(names(page), "Support Bot")

	// Case-insensitive
	page = suite.listBots("q=chat&size=10")
	suite.Contains(names(page), "ChatHelper")
}

func (suite *IntegrationTestSuite) TestListValidation() {
	w := suite.request("GET", "/api/v1/bots?size=0", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request("GET", "/api/v1/bots?size=-3", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request("GET", "/api/v1/bots?cursor=%21%21garbage%21%21", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestRatingAggregation() {
	ownerToken, _ := suite.register("Grace", "grace@example.com")
	rater1, _ := suite.register("Heidi", "heidi@example.com")
	rater2, _ := suite.register("Ivan", "ivan@example.com")
	rater3, _ := suite.register("Judy", "judy@example.com")

	botID := suite.createBot(ownerToken, models.CreateBotRequest{BotName: "RateMe"})

	for token, value := range map[string]int{rater1: 5, rater2: 3, rater3: 4} {
		w := suite.rate(token, botID, value)
		suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	detail := suite.botDetail(botID)
	suite.Equal(4.0, detail.AverageRating)
	suite.Equal(int64(3), detail.Reviews)

	// A second rating from the same user is a conflict and leaves the
	// average untouched.
	w := suite.rate(rater1, botID, 1)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(4.0, suite.botDetail(botID).AverageRating)

	// Boundaries
	w = suite.rate(rater1, botID, 0)
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.rate(rater1, botID, 6)
	suite.Equal(http.StatusBadRequest, w.Code)

	// Absent bot
	w = suite.rate(rater1, 9999999, 4)
	suite.Equal(http.StatusNotFound, w.Code)

	// Unauthenticated
	w = suite.rate("", botID, 4)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// N users rating one bot at the same time must not lose an update:
// the bot row lock serializes the insert-and-recompute unit, so the
// stored average is the exact mean of all N values afterwards.
func (suite *IntegrationTestSuite) TestConcurrentRatingSubmissions() {
	ownerToken, _ := suite.register("Quinn", "quinn@example.com")
	botID := suite.createBot(ownerToken, models.CreateBotRequest{BotName: "Contended Bot"})

	const raters = 8
	tokens := make([]string, raters)
	values := make([]int, raters)
	sum := 0
	for i := 0; i < raters; i++ {
		tokens[i], _ = suite.register(
			fmt.Sprintf("Rater%d", i),
			fmt.Sprintf("rater%d@example.com", i),
		)
		values[i] = i%5 + 1
		sum += values[i]
	}

	codes := make([]int, raters)
	var wg sync.WaitGroup
	for i := 0; i < raters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = suite.rate(tokens[i], botID, values[i]).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		suite.Equal(http.StatusCreated, code, "rater %d", i)
	}

	detail := suite.botDetail(botID)
	suite.Equal(int64(raters), detail.Reviews)
	suite.Equal(float64(sum)/float64(raters), detail.AverageRating)
}

// M concurrent submissions from the same user race the uniqueness
// check; exactly one may win.
func (suite *IntegrationTestSuite) TestConcurrentDuplicateRatings() {
	ownerToken, _ := suite.register("Rita", "rita@example.com")
	raterToken, _ := suite.register("Sam", "sam@example.com")
	botID := suite.createBot(ownerToken, models.CreateBotRequest{BotName: "Duplicated Bot"})

	const attempts = 6
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = suite.rate(raterToken, botID, 4).Code
		}(i)
	}
	wg.Wait()

	created, conflicted := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		}
	}
	suite.Equal(1, created)
	suite.Equal(attempts-1, conflicted)

	detail := suite.botDetail(botID)
	suite.Equal(int64(1), detail.Reviews)
	suite.Equal(4.0, detail.AverageRating)
}

func (suite *IntegrationTestSuite) TestBotDetailDefaults() {
	token, _ := suite.register("Mallory", "mallory@example.com")

	botID := suite.createBot(token, models.CreateBotRequest{
		BotName: "DetailBot",
		Tags:    []string{"beta", "alpha"},
	})

	detail := suite.botDetail(botID)
	suite.Equal("DetailBot", detail.BotName)
	suite.Equal("No description available", detail.Description)
	suite.Equal("Uncategorized", detail.Category)
	suite.Equal("Mallory Inc", detail.Publisher)
	suite.Equal(float64(0), detail.AverageRating)
	suite.Equal(int64(0), detail.Reviews)
	suite.Equal([]string{"beta", "alpha"}, detail.Tags) // insertion order kept

	w := suite.request("GET", "/api/v1/bots/9999999", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
}

// A bot whose owner account was deleted still serves its detail page,
// falling back to an unknown publisher.
func (suite *IntegrationTestSuite) TestBotDetailPublisherAfterOwnerDeleted() {
	token, _ := suite.register("Trent", "trent@example.com")
	botID := suite.createBot(token, models.CreateBotRequest{BotName: "Orphaned Bot"})

	w := suite.request("DELETE", "/api/v1/profile", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)

	detail := suite.botDetail(botID)
	suite.Equal("Orphaned Bot", detail.BotName)
	suite.Equal("Unknown", detail.Publisher)
}

func (suite *IntegrationTestSuite) TestOwnerOnlyDelete() {
	ownerToken, _ := suite.register("Nina", "nina@example.com")
	otherToken, _ := suite.register("Oscar", "oscar@example.com")

	botID := suite.createBot(ownerToken, models.CreateBotRequest{BotName: "Owned Bot"})

	w := suite.request("DELETE", fmt.Sprintf("/api/v1/bots/%d", botID), nil, otherToken)
	suite.Equal(http.StatusForbidden, w.Code)

	// Still there
	suite.Equal("Owned Bot", suite.botDetail(botID).BotName)

	w = suite.request("DELETE", fmt.Sprintf("/api/v1/bots/%d", botID), nil, ownerToken)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", fmt.Sprintf("/api/v1/bots/%d", botID), nil, "")
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request("DELETE", fmt.Sprintf("/api/v1/bots/%d", botID), nil, ownerToken)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestMyBots() {
	token, _ := suite.register("Peggy", "peggy@example.com")

	first := suite.createBot(token, models.CreateBotRequest{BotName: "MineFirst"})
	second := suite.createBot(token, models.CreateBotRequest{BotName: "MineSecond"})

	w := suite.request("GET", "/api/v1/my-bots", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp models.MyBotsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(2), resp.TotalBots)
	suite.Require().Len(resp.Bots, 2)
	// Newest first
	suite.Equal(second, resp.Bots[0].ID)
	suite.Equal(first, resp.Bots[1].ID)
}
