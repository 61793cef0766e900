// Package app wires the HTTP surface: middleware, routes and the handlers'
// dependencies
package app

import (
	"context"
	"fmt"
	"net/http"
	"scholaflow/backend/app/account"
	"scholaflow/backend/app/classroom"
	"scholaflow/backend/app/root"
	"scholaflow/backend/app/user"
	"scholaflow/backend/aws"
	"scholaflow/backend/config"
	"scholaflow/backend/db"
	"scholaflow/backend/internal"
	"scholaflow/backend/internal/service"
	"scholaflow/backend/internal/storage"
	"scholaflow/backend/pkg/middleware"
	"scholaflow/backend/validators"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxBodySize = 1 << 20

// NewDeps opens the database and the object store and builds the services on
// top of them. The caller owns d.DB and has to close it.
func NewDeps(ctx context.Context) (*internal.Deps, error) {
	gdb, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	s3, err := aws.NewS3(ctx,
		string(storage.CategoryAvatar),
		string(storage.CategoryComment),
		string(storage.CategoryMessage),
	)
	if err != nil {
		db.Close(gdb)
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}

	remover := storage.NewS3Remover(s3)

	return &internal.Deps{
		DB:         gdb,
		Storage:    remover,
		Sessions:   service.NewSessionValidator(gdb),
		Deleter:    service.NewAccountDeleter(gdb, remover, viper.GetString("storage.oauth_avatar_host")),
		Classrooms: service.NewClassroomService(gdb, viper.GetInt("classrooms.max_per_day")),
		Validate:   validators.New(),
	}, nil
}

// NewRouter registers every route. Background jobs (rate limiter cleanup)
// stop once ctx is done.
func NewRouter(ctx context.Context, d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     config.AllowedOrigins(),
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	rateLimiter := middleware.NewRateLimiter(ctx, middleware.RateLimiterConfig{
		Requests: viper.GetInt("security.rate_limit.requests"),
		Window:   viper.GetDuration("security.rate_limit.window"),
	})
	session := middleware.NewSessionMiddleware(d.Sessions)

	router.Use(rateLimiter.Middleware())

	// GET /			-> Service banner
	router.GET("/", root.Banner)

	main := router.Group("/v1/api", middleware.BodySizeLimiter(maxBodySize))
	{
		// HEAD /v1/api/heartbeat	-> Used to check if the server is alive
		main.HEAD("/heartbeat", root.Heartbeat)
	}

	users := main.Group("/users")
	{
		// GET /v1/api/users?email=	-> Looks a user up by email
		users.GET("", func(c *gin.Context) { user.UserFetchByEmail(c, d) })

		// GET /v1/api/users/:userId	-> Returns a user by ID
		users.GET("/:userId", session, func(c *gin.Context) { user.UserFetch(c, d) })

		// GET /v1/api/users/:userId/classrooms?type=	-> Created or enrolled classrooms of a user
		users.GET("/:userId/classrooms", func(c *gin.Context) { user.UserClassrooms(c, d) })
	}

	accounts := main.Group("/accounts")
	{
		// GET /v1/api/accounts/:userId	-> Returns the provider account of a user
		accounts.GET("/:userId", session, func(c *gin.Context) { account.AccountFetch(c, d) })

		// DELETE /v1/api/accounts	-> Deletes everything the caller owns
		accounts.DELETE("", func(c *gin.Context) { account.AccountDelete(c, d) })
	}

	classrooms := main.Group("/classrooms")
	{
		// GET /v1/api/classrooms/:classId	-> Returns a classroom by ID
		classrooms.GET("/:classId", func(c *gin.Context) { classroom.ClassroomFetch(c, d) })

		// POST /v1/api/classrooms	-> Creates a classroom
		classrooms.POST("", func(c *gin.Context) { classroom.ClassroomCreate(c, d) })
	}

	return router
}
