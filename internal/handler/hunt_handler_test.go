package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newClaimContext создает *gin.Context с сырым телом запроса
func newClaimContext(body string) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(http.MethodPost, "/hunts/1/claim", bytes.NewReader(nil))
	} else {
		req, _ = http.NewRequest(http.MethodPost, "/hunts/1/claim", strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c
}

// Для NFT-наград счёт игрока не нужен, поэтому клиенты шлют POST без тела
func TestBindClaimRequest_EmptyBodyIsAllowed(t *testing.T) {
	c := newClaimContext("")

	req, err := bindClaimRequest(c)

	require.NoError(t, err)
	assert.Empty(t, req.Account)
}

func TestBindClaimRequest_AccountParsed(t *testing.T) {
	c := newClaimContext(`{"account": "GPLAYER123"}`)

	req, err := bindClaimRequest(c)

	require.NoError(t, err)
	assert.Equal(t, "GPLAYER123", req.Account)
}

func TestBindClaimRequest_MalformedJSONRejected(t *testing.T) {
	c := newClaimContext(`{"account": `)

	_, err := bindClaimRequest(c)

	assert.Error(t, err)
}
