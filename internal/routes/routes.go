package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/analyzer"
	"github.com/beautyai/beautyai-api/internal/audit"
	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/config"
	"github.com/beautyai/beautyai-api/internal/handlers"
	infraRepo "github.com/beautyai/beautyai-api/internal/infra/repository"
	"github.com/beautyai/beautyai-api/internal/middleware"
	"github.com/beautyai/beautyai-api/internal/storage"
	ucAnalysis "github.com/beautyai/beautyai-api/internal/usecase/analysis"
	ucCarePlan "github.com/beautyai/beautyai-api/internal/usecase/careplan"
	ucChat "github.com/beautyai/beautyai-api/internal/usecase/chat"
	"github.com/beautyai/beautyai-api/internal/validators"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Audit    *audit.Dispatcher
	Storage  storage.Storage
	Analyzer analyzer.Analyzer
	Limiter  *middleware.LoginLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// INFRA
	// ======================================================
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	carePlanRepo := infraRepo.NewCarePlanGormRepository(d.DB)
	chatRepo := infraRepo.NewChatGormRepository(d.DB)
	analysisRepo := infraRepo.NewAnalysisGormRepository(d.DB)

	authService := auth.NewService(userRepo, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL))
	emails := validators.EmailChecker{CheckDomain: cfg.EmailDomainCheck}

	// ======================================================
	// USE CASES
	// ======================================================
	createCarePlanUC := ucCarePlan.NewCreateCarePlan(carePlanRepo, d.Audit)
	listCarePlansUC := ucCarePlan.NewListCarePlans(carePlanRepo)
	getCarePlanUC := ucCarePlan.NewGetCarePlan(carePlanRepo)
	updateCarePlanUC := ucCarePlan.NewUpdateCarePlan(carePlanRepo, d.Audit)
	deleteCarePlanUC := ucCarePlan.NewDeleteCarePlan(carePlanRepo, d.Audit)
	exportCarePlanUC := ucCarePlan.NewExportCarePlan(carePlanRepo, cfg.Timezone)

	sendMessageUC := ucChat.NewSendMessage(chatRepo, d.Audit)
	listMessagesUC := ucChat.NewListMessages(chatRepo)
	markReadUC := ucChat.NewMarkRead(chatRepo)

	analysisService := ucAnalysis.NewService(
		analysisRepo,
		d.Storage,
		d.Analyzer,
		d.Audit,
		ucAnalysis.ImageSettings{MaxSide: cfg.ImageMaxSide, Quality: 85},
		d.Log.Named("analysis"),
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	systemHandler := handlers.NewSystemHandler(d.DB)
	authHandler := handlers.NewAuthHandler(authService)
	meHandler := handlers.NewMeHandler()
	userHandler := handlers.NewUserHandler(userRepo, emails, d.Audit)
	clientHandler := handlers.NewClientHandler(d.DB, emails, d.Audit, cfg.Timezone)
	productHandler := handlers.NewProductHandler(d.DB)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, cfg.UploadMaxBytes)

	carePlanHandler := handlers.NewCarePlanHandler(
		createCarePlanUC,
		listCarePlansUC,
		getCarePlanUC,
		updateCarePlanUC,
		deleteCarePlanUC,
		exportCarePlanUC,
	)

	chatHandler := handlers.NewChatHandler(sendMessageUC, listMessagesUC, markReadUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, cfg.Timezone)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/", systemHandler.Root)
	r.GET("/health", systemHandler.Health)
	r.POST("/token", d.Limiter.Middleware(), authHandler.Login)

	// ======================================================
	// AUTHENTICATED
	// ======================================================
	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(authService))
	{
		secured.GET("/users/me", meHandler.GetMe)

		// ------------------------------
		// USERS (superadmin)
		// ------------------------------
		users := secured.Group("/users", middleware.RequireSuperadmin())
		{
			users.POST("/", userHandler.Create)
			users.GET("/", userHandler.List)
			users.PUT("/:id", userHandler.Update)
		}

		// ------------------------------
		// CLIENTS
		// ------------------------------
		secured.POST("/clients/", clientHandler.Create)
		secured.GET("/clients/", clientHandler.List)
		secured.GET("/clients/:id", clientHandler.Get)
		secured.PUT("/clients/:id", clientHandler.Update)

		// ------------------------------
		// PRODUCTS
		// ------------------------------
		secured.GET("/products/", productHandler.List)
		secured.GET("/products/:id", productHandler.Get)
		secured.POST("/products/", productHandler.Create)
		secured.PUT("/products/:id", productHandler.Update)
		secured.DELETE("/products/:id", productHandler.Delete)

		// ------------------------------
		// ANALYSES
		// ------------------------------
		secured.POST("/analyses/", analysisHandler.Create)
		secured.GET("/analyses/", analysisHandler.List)
		secured.GET("/analyses/:id", analysisHandler.Get)
		secured.PUT("/analyses/:id", analysisHandler.Update)
		secured.PUT("/analyses/:id/products", analysisHandler.ReplaceProducts)
		secured.GET("/analyses/:id/image", analysisHandler.Image)

		// ------------------------------
		// CARE PLANS
		// ------------------------------
		secured.POST("/care-plans/", carePlanHandler.Create)
		secured.GET("/care-plans/", carePlanHandler.List)
		secured.GET("/care-plans/:id", carePlanHandler.Get)
		secured.PUT("/care-plans/:id", carePlanHandler.Update)
		secured.DELETE("/care-plans/:id", carePlanHandler.Delete)
		secured.GET("/care-plans/:id/pdf", carePlanHandler.Export)

		// ------------------------------
		// CHAT
		// ------------------------------
		secured.POST("/chat/messages/", chatHandler.Send)
		secured.GET("/chat/messages/:client_id", chatHandler.List)
		secured.PUT("/chat/messages/:id/read", chatHandler.MarkRead)

		secured.GET("/audit-logs", middleware.RequireSuperadmin(), auditLogsHandler.List)
	}
}
