package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"debug":    zerolog.DebugLevel,
		" WARN ":   zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNewWithWriterAddsServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info", ServiceName: "chat-client"}, &buf)

	logger.Info().Str(FieldUsername, "alice").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "chat-client", line[FieldService])
	assert.Equal(t, "alice", line[FieldUsername])
	assert.Equal(t, "hello", line["message"])
}

func TestNewWithWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "error"}, &buf)

	logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{}, &buf)

	ctx := WithLogger(context.Background(), logger)
	l := Ctx(ctx)
	l.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")

	assert.NotPanics(t, func() { Ctx(nil) })
}

func TestRequestIDRoundTrip(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.Empty(t, RequestID(nil))

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		header    string
		status    int
		wantLevel string
	}{
		{name: "ok generates id", status: http.StatusOK, wantLevel: "info"},
		{name: "conflict keeps client id", header: "req-7", status: http.StatusConflict, wantLevel: "warn"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			var seenID string

			r := gin.New()
			r.Use(RequestLogger(NewWithWriter(Config{Level: "debug"}, &buf)))
			r.POST("/login", func(c *gin.Context) {
				seenID = RequestID(c.Request.Context())
				c.Set(FieldUsername, "alice")
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			echoed := rec.Header().Get(HeaderRequestID)
			require.NotEmpty(t, echoed)
			assert.Equal(t, echoed, seenID)
			if tt.header != "" {
				assert.Equal(t, tt.header, echoed)
			}

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.Equal(t, echoed, line[FieldRequestID])
			assert.Equal(t, "alice", line[FieldUsername])
			assert.EqualValues(t, tt.status, line[FieldStatus])
		})
	}
}

func TestOutputWriterAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	w := outputWriter(path)
	f, ok := w.(*os.File)
	require.True(t, ok)
	defer f.Close()

	logger := NewWithWriter(Config{}, w)
	logger.Info().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")

	assert.Same(t, os.Stderr, outputWriter(" STDERR "))
	assert.Same(t, os.Stdout, outputWriter(""))
}
