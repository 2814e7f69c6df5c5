// Package middleware holds the gin middleware the planner's HTTP server
// wraps every route in, grounded on brianmickel-battery-backtest's
// internal/api/middleware package: one gin.CustomRecovery-based error
// handler, plus CORS via rs/cors rather than a hand-rolled header setter.
package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// ErrorHandler recovers from panics in request handlers and renders them as
// a JSON error response instead of crashing the server.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if err, ok := recovered.(string); ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "INTERNAL_ERROR", "message": err},
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "INTERNAL_ERROR", "message": "an unexpected error occurred"},
			})
		}
		c.Abort()
	})
}

// CORS wraps rs/cors as gin middleware, permissive by default since the
// planner has no browser session state to protect.
func CORS() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	handler := c.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	return func(ctx *gin.Context) {
		handler.ServeHTTP(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

// Logger logs one line per request with method, path, status, and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		log.Printf("%s %s %d %s", c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
