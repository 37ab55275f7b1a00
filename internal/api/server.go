package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"bookrental/docs"
	v1 "bookrental/internal/api/handler/v1"
	"bookrental/internal/api/middleware"
	"bookrental/internal/config"
	"bookrental/internal/pkg/clock"
	"bookrental/internal/repository"
	"bookrental/internal/repository/dao"
	"bookrental/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	bookHandler := s.initBookHandler(db)
	rentalHandler := s.initRentalHandler(db)
	paymentHandler := s.initPaymentHandler(db)
	reportHandler := s.initReportHandler(db)
	s.MountHandlers(authHandler, userHandler, bookHandler, rentalHandler, paymentHandler, reportHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initBookHandler(db *gorm.DB) *v1.BookHandler {
	bookDAO := dao.NewBookDAO(db)
	repo := repository.NewBookRepository(bookDAO)
	svc := service.NewBookService(repo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewBookHandler(svc, uSvc)

	return handler
}

func (s *Server) initRentalHandler(db *gorm.DB) *v1.RentalHandler {
	rentalRepo := repository.NewRentalRepository(dao.NewRentalDAO(db))
	bookRepo := repository.NewBookRepository(dao.NewBookDAO(db))
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	svc := service.NewRentalService(rentalRepo, bookRepo, paymentRepo, clock.NewRealClock())
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewRentalHandler(svc, uSvc)

	return handler
}

func (s *Server) initPaymentHandler(db *gorm.DB) *v1.PaymentHandler {
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	rentalRepo := repository.NewRentalRepository(dao.NewRentalDAO(db))
	svc := service.NewPaymentService(paymentRepo, rentalRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewPaymentHandler(svc, uSvc)

	return handler
}

func (s *Server) initReportHandler(db *gorm.DB) *v1.ReportHandler {
	rentalRepo := repository.NewRentalRepository(dao.NewRentalDAO(db))
	svc := service.NewReportService(rentalRepo, clock.NewRealClock())
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewReportHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	bookHandler *v1.BookHandler,
	rentalHandler *v1.RentalHandler,
	paymentHandler *v1.PaymentHandler,
	reportHandler *v1.ReportHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.GET("/books", bookHandler.HandleSearchBooks)
		authed.GET("/books/:bookID", bookHandler.HandleGetBook)
		authed.POST("/books", bookHandler.HandleCreateBook)
		authed.PUT("/books/:bookID", bookHandler.HandleUpdateBook)
		authed.DELETE("/books/:bookID", bookHandler.HandleDeleteBook)

		authed.GET("/rentals", rentalHandler.HandleGetHistory)
		authed.POST("/rentals", rentalHandler.HandleRent)
		authed.POST("/rentals/:rentalID/pickup", rentalHandler.HandlePickup)
		authed.POST("/rentals/:rentalID/return", rentalHandler.HandleReturn)
		authed.POST("/rentals/:rentalID/cancel", rentalHandler.HandleCancel)

		authed.POST("/payments", paymentHandler.HandleSubmitPayment)
		authed.POST("/payments/:paymentID/verify", paymentHandler.HandleVerifyPayment)
		authed.GET("/payments/pending", paymentHandler.HandleListPendingPayments)

		authed.GET("/reports/dashboard", reportHandler.HandleDashboard)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Book Rental API"
	docs.SwaggerInfo.Description = "A book lending inventory and rental API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
