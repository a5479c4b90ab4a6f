package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/rs/zerolog"
)

// Recovery turns a panic into a 500 envelope. The panic value is only echoed
// to the client when exposeErrors is set (development).
func Recovery(exposeErrors bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		zerolog.Ctx(c.Request.Context()).Error().
			Str("panic", fmt.Sprint(recovered)).
			Msg("recovered from panic")

		env := common.Envelope{Status: common.StatusError, Message: "Something went wrong!"}
		if exposeErrors {
			env.Error = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, env)
	})
}
