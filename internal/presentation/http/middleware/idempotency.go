package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/sangkips/stockledger-api/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader marks a response served from the idempotency cache
	ReplayedHeader = "X-Idempotency-Replayed"
	// DefaultIdempotencyTTL is how long keys are valid when none is configured
	DefaultIdempotencyTTL = 24 * time.Hour
	// ClaimLease bounds how long an unfinished request holds its key
	ClaimLease = 5 * time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
	Log  *logrus.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a POST arrives with a key already seen
// on the same route. The key is claimed before the handler runs, so a concurrent
// request with the same key gets 409 instead of running twice. Only 2xx responses
// are stored; any other outcome releases the key so the request can be retried.
// Reusing a key with a different body is rejected.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	log := config.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > 255 {
			response.Abort(c, apperror.NewFieldValidationError(IdempotencyKeyHeader, "must be at most 255 characters"))
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Abort(c, apperror.NewBadRequestError("Failed to read request body"))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])
		endpoint := c.Request.Method + " " + c.FullPath()

		existing, err := config.Repo.GetByKey(c.Request.Context(), key, endpoint)
		if err != nil {
			logger.LogError(log, "middleware", "Idempotency", "lookup", key, err)
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			rejectOrReplay(c, existing, requestHash)
			return
		}

		claimed, err := config.Repo.Claim(c.Request.Context(), &entity.IdempotencyKey{
			Key:         key,
			Endpoint:    endpoint,
			RequestHash: requestHash,
			ExpiresAt:   time.Now().Add(ClaimLease),
		})
		if err != nil {
			logger.LogError(log, "middleware", "Idempotency", "claim", key, err)
			c.Next()
			return
		}
		if !claimed {
			response.Abort(c, apperror.NewConflictError("A request with this Idempotency-Key is already in progress"))
			return
		}

		completed := false
		defer func() {
			if completed {
				return
			}
			if err := config.Repo.Release(context.WithoutCancel(c.Request.Context()), key, endpoint); err != nil {
				logger.LogError(log, "middleware", "Idempotency", "release", key, err)
			}
		}()

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          key,
			Endpoint:     endpoint,
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(ttl),
		}
		if err := config.Repo.Complete(context.WithoutCancel(c.Request.Context()), ikey); err != nil {
			logger.LogError(log, "middleware", "Idempotency", "store", key, err)
			return
		}
		completed = true
	}
}

// rejectOrReplay answers a request whose key is already held
func rejectOrReplay(c *gin.Context, existing *entity.IdempotencyKey, requestHash string) {
	if existing.RequestHash != "" && existing.RequestHash != requestHash {
		response.Abort(c, apperror.NewAppError(http.StatusUnprocessableEntity, apperror.KindBadRequest,
			"Idempotency-Key was already used with a different request"))
		return
	}
	if existing.IsPending() {
		response.Abort(c, apperror.NewConflictError("A request with this Idempotency-Key is already in progress"))
		return
	}
	c.Header(ReplayedHeader, "true")
	c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
	c.Abort()
}
