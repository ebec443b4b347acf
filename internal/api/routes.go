package api

import (
	"alcyxob/fitplan/internal/metrics"
	"alcyxob/fitplan/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the handlers depend on.
type Services struct {
	Workouts     service.WorkoutService
	Clients      service.ClientService
	CoachProfile service.CoachProfileService
	Documents    service.DocumentService
	Backup       service.BackupService
	Stats        service.StatsService
}

// RouterOptions carries the cross-cutting pieces of the router.
type RouterOptions struct {
	Metrics *metrics.Manager
	// Gatherer backs /metrics; nil skips the endpoint.
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// NewRouter builds a gin engine with the middleware chain and every route.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(PanicRecovery(), RequestLogger(), Cors(opts.AllowedOrigins))
	if opts.Metrics != nil {
		router.Use(RequestMetrics(opts.Metrics))
	}
	SetupRoutes(router, svc)
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return router
}

func SetupRoutes(router *gin.Engine, svc Services) {
	workoutHandler := NewWorkoutHandler(svc.Workouts, svc.Documents)
	clientHandler := NewClientHandler(svc.Clients, svc.Workouts)
	profileHandler := NewCoachProfileHandler(svc.CoachProfile)
	backupHandler := NewBackupHandler(svc.Backup)
	statsHandler := NewStatsHandler(svc.Stats)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		workouts := apiV1.Group("/workouts")
		{
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.POST("", workoutHandler.CreateWorkout)
			workouts.GET("/:id", workoutHandler.GetWorkout)
			workouts.PUT("/:id", workoutHandler.UpdateWorkout)
			workouts.DELETE("/:id", workoutHandler.DeleteWorkout)
			workouts.POST("/:id/duplicate", workoutHandler.DuplicateWorkout)
			workouts.GET("/:id/pdf", workoutHandler.DownloadPDF)

			// --- Plan editor ---
			workouts.PATCH("/:id/fields", workoutHandler.UpdateField)
			workouts.POST("/:id/weeks", workoutHandler.AddWeek)
			workouts.DELETE("/:id/weeks/:weekId", workoutHandler.RemoveWeek)
			workouts.POST("/:id/weeks/:weekId/days", workoutHandler.AddDay)
			workouts.DELETE("/:id/weeks/:weekId/days/:dayId", workoutHandler.RemoveDay)
			workouts.POST("/:id/weeks/:weekId/days/:dayId/exercises", workoutHandler.AddExercise)
			workouts.DELETE("/:id/weeks/:weekId/days/:dayId/exercises/:exerciseId", workoutHandler.RemoveExercise)
		}

		clients := apiV1.Group("/clients")
		{
			clients.GET("", clientHandler.ListClients)
			clients.POST("", clientHandler.CreateClient)
			clients.GET("/:id", clientHandler.GetClient)
			clients.PUT("/:id", clientHandler.UpdateClient)
			clients.DELETE("/:id", clientHandler.DeleteClient)
			clients.GET("/:id/workouts", clientHandler.GetClientWorkouts)
		}

		profile := apiV1.Group("/coach-profile")
		{
			profile.GET("", profileHandler.GetProfile)
			profile.POST("", profileHandler.ReplaceProfile)
			profile.GET("/:id", profileHandler.GetProfileByID)
			profile.PUT("/:id", profileHandler.UpdateProfile)
		}

		apiV1.GET("/backup", backupHandler.ExportBackup)
		apiV1.POST("/backup", backupHandler.ImportBackup)
		apiV1.GET("/backup/stats", backupHandler.BackupStats)

		apiV1.GET("/stats", statsHandler.GetStats)
	}
}
