package utils

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"time"

	"github.com/racedatahub/racedata-manager-go/log"
)

// WaitForTCP polls addr until a TCP connection succeeds or timeout is
// reached.
func WaitForTCP(addr string, timeout time.Duration) error {
	timeoutReached := time.Now().Add(timeout)
	start := time.Now()
	log.Debug("wait for tcp connection",
		log.String("addr", addr),
		log.String("timeout", timeout.String()))
	var d net.Dialer
	for time.Now().Before(timeoutReached) {
		conn, err := d.DialContext(context.Background(), "tcp", addr)
		if err == nil {
			conn.Close()

			log.Debug("tcp connection successful",
				log.String("addr", addr),
				log.String("duration", time.Since(start).String()))
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("%s could not be reached after %v", addr, timeout)
}

// ExtractFromDBURL returns the host:port part of a postgresql
// connection string, defaulting the port to 5432.
func ExtractFromDBURL(url string) string {
	param := resolveRegex(
		"^postgresql://(.*@)(?P<addr>(?P<host>.*?)(:(?P<port>\\d+))?)/.*", url)
	if len(param) == 0 {
		return ""
	}
	if port, ok := param["port"]; ok && port != "" {
		return param["addr"] // if port is found, the addr contains our wanted value
	}
	return fmt.Sprintf("%s:5432", param["addr"])
}

func resolveRegex(expr, s string) map[string]string {
	re := regexp.MustCompile(expr)
	match := re.FindStringSubmatch(s)
	ret := map[string]string{}
	if match == nil {
		return ret
	}
	for i, name := range re.SubexpNames() {
		if i > 0 && name != "" {
			ret[name] = match[i]
		}
	}
	return ret
}
