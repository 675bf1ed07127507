package session

import (
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisSnapshots(t *testing.T) {
	snapshots := NewRedisSnapshots(config.RedisConfig{Addr: "localhost:6379"}, time.Hour)
	assert.NotNil(t, snapshots)
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "session:user:abc", snapshotKey("abc"))
}
