package monitor

import (
	"net"
	"net/netip"
	"strconv"
	"strings"

	"ccmon/model"
)

const statusEstablished = "ESTABLISHED"

// NetMap maps a pid to one representative remote endpoint.
type NetMap map[int32]string

// BuildNetMap keeps, per pid, the first established connection whose
// remote address is neither loopback nor unspecified.
func BuildNetMap(conns []model.Conn) NetMap {
	m := make(NetMap)
	for _, c := range conns {
		if c.Pid == 0 || !strings.EqualFold(c.Status, statusEstablished) {
			continue
		}
		if _, ok := m[c.Pid]; ok {
			continue
		}
		addr, ok := remoteAddr(c.RemoteIP)
		if !ok {
			continue
		}
		endpoint := net.JoinHostPort(addr.String(), strconv.FormatUint(uint64(c.RemotePort), 10))
		m[c.Pid] = model.Clip(endpoint, model.NetLen)
	}
	return m
}

func remoteAddr(ip string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return netip.Addr{}, false
	}
	addr = addr.Unmap()
	if addr.IsLoopback() || addr.IsUnspecified() {
		return netip.Addr{}, false
	}
	return addr, true
}
