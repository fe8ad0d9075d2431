package monitor

import (
	"testing"

	"ccmon/model"

	"github.com/stretchr/testify/assert"
)

func TestBuildNetMap(t *testing.T) {
	conns := []model.Conn{
		{Pid: 1, Status: "ESTABLISHED", RemoteIP: "127.0.0.1", RemotePort: 80},
		{Pid: 1, Status: "ESTABLISHED", RemoteIP: "10.0.0.5", RemotePort: 22},
		{Pid: 1, Status: "ESTABLISHED", RemoteIP: "10.0.0.6", RemotePort: 23},
		{Pid: 2, Status: "LISTEN", RemoteIP: "0.0.0.0", RemotePort: 0},
		{Pid: 2, Status: "TIME_WAIT", RemoteIP: "8.8.8.8", RemotePort: 53},
		{Pid: 3, Status: "ESTABLISHED", RemoteIP: "0.0.0.0", RemotePort: 1},
		{Pid: 4, Status: "ESTABLISHED", RemoteIP: "2606:4700::1111", RemotePort: 443},
		{Pid: 5, Status: "ESTABLISHED", RemoteIP: "::1", RemotePort: 443},
		{Pid: 6, Status: "ESTABLISHED", RemoteIP: "::ffff:127.0.0.1", RemotePort: 443},
		{Pid: 0, Status: "ESTABLISHED", RemoteIP: "1.1.1.1", RemotePort: 443},
		{Pid: 7, Status: "ESTABLISHED", RemoteIP: "", RemotePort: 443},
	}

	m := BuildNetMap(conns)

	assert.Equal(t, NetMap{
		1: "10.0.0.5:22",
		4: "[2606:4700::1111]:443",
	}, m)
}

func TestBuildNetMapEmpty(t *testing.T) {
	assert.Empty(t, BuildNetMap(nil))
}
