package middleware

import (
	"bytes"
	"net/http"
	"time"

	"meditation-server/internal/cache"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CacheKeyFunc строит ключ кэша для запроса.
type CacheKeyFunc func(c *gin.Context) string

// UserScopedCacheKey - ключ из userID (если есть) и полного URL.
func UserScopedCacheKey(prefix string) CacheKeyFunc {
	return func(c *gin.Context) string {
		user := "anon"
		if userID, ok := GetUserID(c); ok {
			user = userID.String()
		}
		return prefix + ":" + user + ":" + c.Request.URL.RequestURI()
	}
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache кэширует успешные JSON-ответы GET-запросов.
// Ошибки кэша не влияют на ответ: запрос просто идет в обработчик.
func ResponseCache(store cache.Cache, ttl time.Duration, keyFunc CacheKeyFunc, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("ResponseCache")
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || ttl <= 0 {
			c.Next()
			return
		}

		key := keyFunc(c)
		body, ok, err := store.Get(c.Request.Context(), key)
		if err != nil {
			log.Warn("Cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		writer := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")
		c.Next()

		if c.Writer.Status() != http.StatusOK || writer.body.Len() == 0 {
			return
		}
		if err := store.Put(c.Request.Context(), key, writer.body.Bytes(), ttl); err != nil {
			log.Warn("Cache store failed", zap.String("key", key), zap.Error(err))
		}
	}
}
