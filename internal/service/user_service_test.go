package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUserService_RefreshTTLFromConfig(t *testing.T) {
	s := NewUserService(nil, nil, nil, 7)

	// Redis 里的 refresh token 存活时间必须跟签发有效期同源
	assert.Equal(t, 7*24*time.Hour, s.refreshTTL)
}
