package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"museo/internal/config"
	"museo/internal/database"
	"museo/internal/domain"
	"museo/internal/mailer"
	"museo/internal/middleware"
	"museo/internal/modules/account"
	"museo/internal/modules/board"
	"museo/internal/modules/donation"
	"museo/internal/modules/visit"
	"museo/internal/modules/visitor"
	jwtsvc "museo/internal/pkg/jwt"
	"museo/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	accountRepo := repository.NewAccountRepository(db)
	internRepo := repository.NewInternRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	visitorRepo := repository.NewVisitorRepository(db)
	donationRepo := repository.NewDonationRepository(db)

	j := jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	mail := mailer.NewDevConsoleMailer(os.Getenv("MAILER_DEV_LOG") != "")

	hub := board.NewHub()
	boardHandler := board.NewHandler(hub)

	accountService := account.NewService(accountRepo, internRepo, j, mail, cfg)
	accountHandler := account.NewHandler(accountService)

	visitService := visit.NewService(visitRepo, hub, cfg)
	visitHandler := visit.NewHandler(visitService)

	visitorService := visitor.NewService(visitorRepo, cfg)
	visitorHandler := visitor.NewHandler(visitorService)

	var gateway donation.CheckoutGateway
	if g := donation.NewStripeGateway(cfg.Payments); g != nil {
		gateway = g
	}
	donationService := donation.NewService(donationRepo, gateway, cfg)
	donationHandler := donation.NewHandler(donationService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// public
		accountHandler.RegisterPublicRoutes(v1)
		donationHandler.RegisterWebhook(v1)

		protected := v1.Group("/")
		protected.Use(authMiddleware(j))
		{
			accountHandler.RegisterProfileRoutes(protected)

			visitHandler.RegisterReadRoutes(
				actionGroup(protected, domain.ActionVisitsRead))
			visitHandler.RegisterManageRoutes(
				actionGroup(protected, domain.ActionVisitsManage))

			visitorHandler.RegisterLogRoutes(
				actionGroup(protected, domain.ActionVisitorsLog))
			visitorHandler.RegisterReadRoutes(
				actionGroup(protected, domain.ActionVisitorsRead))
			visitorHandler.RegisterManageRoutes(
				actionGroup(protected, domain.ActionVisitorsManage))

			donationHandler.RegisterRecordRoutes(
				actionGroup(protected, domain.ActionDonationsRead))
			donationHandler.RegisterReviewRoutes(
				actionGroup(protected, domain.ActionDonationsReview))

			accountHandler.RegisterStaffRoutes(
				actionGroup(protected, domain.ActionStaffManage))
			accountHandler.RegisterInternRoutes(
				actionGroup(protected, domain.ActionInternsManage))

			boardHandler.RegisterRoutes(
				actionGroup(protected, domain.ActionBoardWatch))
		}
	}

	addr := ":" + getPort()
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

func getPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

func actionGroup(rg *gin.RouterGroup, action domain.Action) *gin.RouterGroup {
	g := rg.Group("/")
	g.Use(middleware.RequireAction(action))
	return g
}

func authMiddleware(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing Authorization header",
				},
			})
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid Authorization header",
				},
			})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Empty token",
				},
			})
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid token",
				},
			})
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
