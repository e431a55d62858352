package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schoolhub_backend/internal/auth"
	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/email"
	"schoolhub_backend/internal/handlers"
	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/models/chat"
	"schoolhub_backend/internal/repositories"
	chatrepo "schoolhub_backend/internal/repositories/chat"
	"schoolhub_backend/internal/routes"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/storage"
	"schoolhub_backend/internal/validator"
	"schoolhub_backend/internal/workers"
	"schoolhub_backend/ws"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from gorm", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("failed to seed first admin user", "error", err)
	}

	router := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	logger.Info("storage initialized", "type", cfg.Storage.Type)

	wsManager := ws.NewManager()
	go wsManager.Run()

	container := initializeServices(gormDB, store, wsManager)

	wsHandler := ws.NewHandler(wsManager, container.ChatService)

	appHandlers := initializeHandlers(cfg, container, gormDB)

	worker := workers.NewNotificationWorker(
		container.NotificationService,
		repositories.NewNotificationRepository(gormDB),
	)
	worker.Start(context.Background())

	router := initializeGinRouter(gormDB)
	routes.RegisterRoutes(router, appHandlers, wsHandler)

	return router
}

func initializeServices(gormDB *gorm.DB, store storage.Storage, broadcaster services.Broadcaster) *services.ServiceContainer {
	templates := email.NewTemplateManager()
	mailer := email.NewSMTPProvider(config.GetConfig().Email, templates)

	userRepo := repositories.NewUserRepository(gormDB)
	middleware.SetUserLoader(userRepo.FindByID)
	schoolRepo := repositories.NewSchoolRepository(gormDB)
	classRepo := repositories.NewClassRepository(gormDB)
	subjectRepo := repositories.NewSubjectRepository(gormDB)
	gradeRepo := repositories.NewGradeRepository(gormDB)
	assignmentRepo := repositories.NewAssignmentRepository(gormDB)
	noticeRepo := repositories.NewNoticeRepository(gormDB)
	complaintRepo := repositories.NewComplaintRepository(gormDB)
	requestRepo := repositories.NewTeacherRequestRepository(gormDB)
	registrationRepo := repositories.NewStudentRegistrationRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	chatRepo := chatrepo.NewChatRepository(gormDB)
	participantRepo := chatrepo.NewParticipantRepository(gormDB)
	messageRepo := chatrepo.NewMessageRepository(gormDB)
	receiptRepo := chatrepo.NewReadReceiptRepository(gormDB)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, broadcaster)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, classRepo)
	schoolService := services.NewSchoolService(schoolRepo)
	classService := services.NewClassService(classRepo, userRepo)
	subjectService := services.NewSubjectService(subjectRepo, classRepo, userRepo)
	gradeService := services.NewGradeService(gradeRepo, subjectRepo, userRepo, notificationService)
	assignmentService := services.NewAssignmentService(assignmentRepo, subjectRepo, userRepo, notificationService)
	noticeService := services.NewNoticeService(noticeRepo, userRepo, notificationService)
	complaintService := services.NewComplaintService(complaintRepo)
	registrationService := services.NewRegistrationService(
		requestRepo, registrationRepo, userRepo, subjectRepo, classRepo, schoolRepo,
		notificationService, mailer,
	)
	chatService := services.NewChatService(
		chatRepo, participantRepo, messageRepo, receiptRepo,
		userRepo, subjectRepo, classRepo,
		store, notificationService, broadcaster,
	)

	return &services.ServiceContainer{
		AuthService:         authService,
		UserService:         userService,
		SchoolService:       schoolService,
		ClassService:        classService,
		SubjectService:      subjectService,
		GradeService:        gradeService,
		AssignmentService:   assignmentService,
		NoticeService:       noticeService,
		ComplaintService:    complaintService,
		RegistrationService: registrationService,
		NotificationService: notificationService,
		ChatService:         chatService,
		EmailService:        mailer,
		Storage:             store,
	}
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer, gormDB *gorm.DB) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	loginLimit, submitLimit := buildRateLimits(cfg)

	return &handlers.AppHandlers{
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService, loginLimit),
		UserHandler:         handlers.NewUserHandler(baseHandler, container.UserService),
		SchoolHandler:       handlers.NewSchoolHandler(baseHandler, container.SchoolService),
		ClassHandler:        handlers.NewClassHandler(baseHandler, container.ClassService),
		SubjectHandler:      handlers.NewSubjectHandler(baseHandler, container.SubjectService),
		GradeHandler:        handlers.NewGradeHandler(baseHandler, container.GradeService),
		AssignmentHandler:   handlers.NewAssignmentHandler(baseHandler, container.AssignmentService),
		NoticeHandler:       handlers.NewNoticeHandler(baseHandler, container.NoticeService),
		ComplaintHandler:    handlers.NewComplaintHandler(baseHandler, container.ComplaintService),
		RegistrationHandler: handlers.NewRegistrationHandler(baseHandler, container.RegistrationService, submitLimit),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, container.ChatService),
	}
}

// buildRateLimits returns the login and public-submission limiters. Without a
// redis address both are pass-through.
func buildRateLimits(cfg *config.Config) (gin.HandlerFunc, gin.HandlerFunc) {
	passThrough := func(c *gin.Context) { c.Next() }

	if cfg.Redis.Addr == "" {
		logger.Warn("redis not configured, rate limiting disabled")
		return passThrough, passThrough
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})

	login := middleware.NewRateLimiter(client, 10, time.Minute)
	submit := middleware.NewRateLimiter(client, 5, time.Hour)

	return login.Middleware("login"), submit.Middleware("submit")
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(config.GetConfig().CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func migrate(db *gorm.DB) error {
	// Chat tables live in their own schema.
	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS chat").Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.School{},
		&models.Class{},
		&models.User{},
		&models.Subject{},
		&models.Grade{},
		&models.Assignment{},
		&models.Notice{},
		&models.Complaint{},
		&models.TeacherRequest{},
		&models.StudentRegistration{},
		&models.Notification{},
		&chat.Chat{},
		&chat.Participant{},
		&chat.Message{},
		&chat.ReadReceipt{},
	)
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		result := tx.Where("lower(email) = lower(?)", adminEmail).First(&existing)
		if result.Error == nil {
			logger.Info("admin user already exists, skipping creation", "email", adminEmail)
			return nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", result.Error)
		}

		// The admin needs a tenant to administer.
		var school models.School
		result = tx.Where("code = ?", "DEFAULT").First(&school)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			school = models.School{Name: "Default School", Code: "DEFAULT", IsActive: true}
			if err := tx.Create(&school).Error; err != nil {
				return fmt.Errorf("failed to create default school: %w", err)
			}
		} else if result.Error != nil {
			return fmt.Errorf("failed to check for default school: %w", result.Error)
		}

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := models.User{
			Name:         "Administrator",
			Email:        adminEmail,
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
			Status:       models.UserStatusActive,
			SchoolID:     school.ID,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("first admin user created", "email", adminEmail)
		return nil
	})
}
