package main

import (
	"fmt"
	"log"
	"os"

	"property-management-server/routes"
	"property-management-server/services"
	"property-management-server/storage"
	"property-management-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the dashboard (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/apple", routes.AppleLoginOrSignUp)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Post("/logout", accessTokenVerifierMiddleware, routes.Logout)
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUser)
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
		user.Patch("/{id}/pushtoken", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterPushToken)
		user.Patch("/{id}/settings/notifications", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AllowsNotifications)
	}

	properties := app.Party("/api/properties", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware)
	{
		properties.Get("/", routes.GetProperties)
		properties.Post("/", routes.CreateProperty)
		properties.Get("/{id}", routes.GetProperty)
		properties.Patch("/{id}", routes.UpdateProperty)
		properties.Delete("/{id}", routes.DeleteProperty)
	}

	tenants := app.Party("/api/tenants", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware)
	{
		tenants.Get("/", routes.GetTenants)
		tenants.Post("/", routes.CreateTenant)
		tenants.Get("/{id}", routes.GetTenant)
		tenants.Patch("/{id}", routes.UpdateTenant)
		tenants.Delete("/{id}", routes.DeleteTenant)
		tenants.Get("/{id}/references", routes.GetTenantReferences)
		tenants.Post("/{id}/references", routes.CreateTenantReference)
		tenants.Patch("/references/{id}/verify", routes.VerifyTenantReference)
	}

	vendors := app.Party("/api/vendors", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware)
	{
		vendors.Get("/", routes.GetVendors)
		vendors.Post("/", routes.CreateVendor)
		vendors.Get("/expiring-insurance", routes.GetExpiringInsurance)
		vendors.Patch("/{id}", routes.UpdateVendor)
		vendors.Delete("/{id}", routes.DeleteVendor)
	}

	leases := app.Party("/api/leases", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware)
	{
		leases.Get("/", routes.GetLeases)
		leases.Post("/", routes.CreateLease)
		leases.Patch("/{id}", routes.UpdateLease)
		leases.Delete("/{id}", routes.DeleteLease)
	}

	maintenance := app.Party("/api/maintenance", accessTokenVerifierMiddleware)
	{
		maintenance.Get("/", routes.GetMaintenanceRequests)
		maintenance.Post("/", routes.CreateMaintenanceRequest)
		maintenance.Patch("/{id}", utils.ManagerOnlyMiddleware, routes.UpdateMaintenanceRequest)
	}

	payments := app.Party("/api/payments", accessTokenVerifierMiddleware)
	{
		payments.Get("/", routes.GetPayments)
		payments.Post("/", utils.ManagerOnlyMiddleware, routes.CreatePayment)
		payments.Post("/intent", routes.ProcessCardPayment)
		payments.Get("/settings/{propertyID}", utils.ManagerOnlyMiddleware, routes.GetPaymentSettings)
		payments.Put("/settings/{propertyID}", utils.ManagerOnlyMiddleware, routes.UpsertPaymentSettings)
	}

	calendar := app.Party("/api/calendar", accessTokenVerifierMiddleware)
	{
		calendar.Get("/", routes.GetCalendarEvents)
		calendar.Post("/", routes.CreateCalendarEvent)
		calendar.Patch("/{id}", routes.UpdateCalendarEvent)
		calendar.Delete("/{id}", routes.DeleteCalendarEvent)
	}

	chat := app.Party("/api/chat", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		chat.Get("/rooms", routes.GetChatRooms)
		chat.Post("/rooms", routes.FindOrCreateChatRoom)
		chat.Get("/rooms/{id}/messages", routes.GetChatMessages)
		chat.Post("/rooms/{id}/messages", routes.SendChatMessage)
		chat.Get("/rooms/{id}/feed", routes.ChatRoomFeed)
	}

	communications := app.Party("/api/communications", accessTokenVerifierMiddleware)
	{
		communications.Get("/", routes.GetCommunications)
		communications.Post("/", routes.CreateCommunication)
		communications.Patch("/{id}/read", routes.MarkCommunicationRead)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notifications.Get("/", routes.GetNotifications)
		notifications.Get("/unread-count", routes.GetUnreadNotificationCount)
		notifications.Patch("/{id}/read", routes.MarkNotificationRead)
		notifications.Patch("/read-all", routes.MarkAllNotificationsRead)
		notifications.Post("/push", utils.ManagerOnlyMiddleware, routes.SendNotification)
	}

	documents := app.Party("/api/documents", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware)
	{
		documents.Get("/", routes.GetDocuments)
		documents.Post("/", routes.UploadDocument)
		documents.Delete("/{id}", routes.DeleteDocument)
	}

	analytics := app.Party("/api/analytics", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		analytics.Get("/", utils.ManagerOnlyMiddleware, routes.GetAnalyticsSummary)
		analytics.Post("/events", routes.TrackEvent)
		analytics.Get("/events", utils.ManagerOnlyMiddleware, routes.GetEventCounts)
		analytics.Get("/revenue", utils.ManagerOnlyMiddleware, routes.GetRevenueTrend)
	}

	app.Get("/api/stats", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.GetDashboardStats)
	app.Get("/api/audit-logs", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.GetAuditLogs)

	settings := app.Party("/api/settings", accessTokenVerifierMiddleware)
	{
		settings.Get("/", routes.GetSystemSettings)
		settings.Put("/", utils.AdminOnlyMiddleware, routes.UpdateSystemSettings)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	scheduler := services.NewScheduler()
	scheduler.Start()
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := ":" + port

	fmt.Println("Starting server on", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
