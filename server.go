package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/boldventures/scorecard_backend/config"
	"github.com/boldventures/scorecard_backend/middlewares"
	"github.com/boldventures/scorecard_backend/models"
	"github.com/boldventures/scorecard_backend/spreadsheet"
	"github.com/boldventures/scorecard_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8000"

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func generateTokens(user *models.User) (*tokenResponse, error) {
	access, err := utils.JwtGenerate(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.JwtGenerateRefresh(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		user, err := models.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		tokens, err := generateTokens(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, tokens)
	}
}

// tokenHandler accepts the OAuth2 password form used by the frontend's
// token endpoint; it is the form-encoded twin of loginHandler.
func tokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		user, err := models.AuthenticateUser(c.Request.Context(), username, password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
			return
		}
		tokens, err := generateTokens(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, tokens)
	}
}

func registerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewUser
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		user, err := models.CreateUser(c.Request.Context(), &req)
		if err != nil {
			switch {
			case utils.IsValidationError(err):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, models.ErrorDuplicateUsername):
				c.JSON(http.StatusConflict, gin.H{"error": "Username already exists."})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		tokens, err := generateTokens(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       "Registration successful.",
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"token_type":    tokens.TokenType,
		})
	}
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func refreshTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		claims, err := utils.JwtValidateRefresh(req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		user, err := models.GetUserByUsername(c.Request.Context(), claims.Username)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		tokens, err := generateTokens(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, tokens)
	}
}

func isAuthenticatedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := utils.GetUsernameFromContext(c.Request.Context())
		if !ok || username == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		user, err := models.GetUserByUsername(c.Request.Context(), username)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"isAuthenticated": true,
			"user": gin.H{
				"username":   user.Username,
				"first_name": user.FirstName,
				"last_name":  user.LastName,
			},
		})
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Tokens are stateless; logout completes client-side.
		c.JSON(http.StatusOK, gin.H{
			"message": "Logout successful. Please ensure that tokens are cleared on the client side to complete the logout process.",
		})
	}
}

func scoreResponse(card *models.Scorecard) gin.H {
	scores := gin.H{
		"alignment":        card.Alignment,
		"team":             card.Team,
		"market":           card.Market,
		"product":          card.Product,
		"potential_return": card.PotentialReturn,
		"bold_excitement":  card.BoldExcitement,
	}
	return gin.H{
		"id":               card.ID,
		"date":             card.DateString(),
		"company_name":     card.CompanyName,
		"sector":           card.Sector,
		"investment_stage": card.InvestmentStage,
		"alignment":        card.Alignment,
		"team":             card.Team,
		"market":           card.Market,
		"product":          card.Product,
		"potential_return": card.PotentialReturn,
		"bold_excitement":  card.BoldExcitement,
		"score":            card.Score,
		"scored_by": gin.H{
			"first_name": card.ScoredBy.FirstName,
			"last_name":  card.ScoredBy.LastName,
		},
		"scores": scores,
	}
}

// scoreCompanyHandler is the submission endpoint: validate, compute the score
// server-side, persist transactionally, then mirror into the shared
// spreadsheet as an awaited best-effort tail step that never fails the
// submission.
func scoreCompanyHandler(syncer *spreadsheet.Syncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewScorecard
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		card, err := models.CreateScorecard(c.Request.Context(), &req)
		if err != nil {
			if utils.IsValidationError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			config.LogError(config.GetLogger(), "handlers", "scoreCompany", "create scorecard", req, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
			return
		}

		syncer.Sync(c.Request.Context(), card)

		c.JSON(http.StatusOK, scoreResponse(card))
	}
}

func sectorsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sectors, err := models.GetSectors(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if sectors == nil {
			sectors = []string{}
		}
		c.JSON(http.StatusOK, sectors)
	}
}

func companyNamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		names, err := models.GetCompanyNames(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if names == nil {
			names = []string{}
		}
		c.JSON(http.StatusOK, names)
	}
}

func scoredCompaniesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		cards, err := models.GetAllScorecards(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response := make([]gin.H, 0, len(cards))
		for _, card := range cards {
			response = append(response, scoreResponse(card))
		}
		c.JSON(http.StatusOK, response)
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination. Cloud Run sends SIGTERM on revision shutdown.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Spreadsheet mirror: disabled entirely when no bucket is configured.
	syncCfg := spreadsheet.ConfigFromEnv()
	syncer := spreadsheet.NewSyncer(syncCfg, spreadsheet.NewGCSStore(syncCfg.Bucket), logger)
	if !syncer.Enabled() {
		logger.WithFields(logrus.Fields{"field": "spreadsheet"}).Warn("GCS_BUCKET not configured; spreadsheet mirror disabled")
	}

	// Start the HTTP server ASAP so the platform considers the revision
	// healthy. Until the DB is ready, app endpoints return 503.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on dependency readiness.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if config.IsProduction() {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/token", tokenHandler())
	r.POST("/api/login/", loginHandler())
	r.POST("/api/register/", registerHandler())
	r.POST("/api/refresh-token/", refreshTokenHandler())

	authed := r.Group("/api")
	authed.Use(middlewares.AuthMiddleware())
	authed.GET("/is-authenticated/", isAuthenticatedHandler())
	authed.POST("/logout/", logoutHandler())
	authed.POST("/score-company/", scoreCompanyHandler(syncer))
	authed.GET("/sectors/", sectorsHandler())
	authed.GET("/company-names/", companyNamesHandler())
	authed.GET("/scored-companies/", scoredCompaniesHandler())

	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations as
	// a separate job instead.
	if !config.SkipMigrations() {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			entry := logrus.NewEntry(logger)
			if cid, ok := utils.GetCorrelationIdFromContext(c.Request.Context()); ok {
				entry = entry.WithField("correlation_id", cid)
			}
			entry.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
