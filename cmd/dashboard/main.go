// Dashboard serves the human-facing tracker page built from the latest CSV
// snapshot. It holds no state beyond a short-lived snapshot cache and the
// optional history store used for the trend chart.
package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pricewatch/pkg/config"
	"pricewatch/pkg/dashboard"
	"pricewatch/pkg/history"
	"pricewatch/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)
	sugar := zlog.Sugar()

	var store *history.Store
	if store, err = history.Open(cfg.Dashboard.HistoryDBPath); err != nil {
		sugar.Warnf("History store unavailable, trend chart disabled: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	srv := dashboard.New(dashboard.Options{
		DataDir:      cfg.Dashboard.DataDir,
		History:      store,
		RefreshTTL:   time.Duration(cfg.Dashboard.RefreshSeconds) * time.Second,
		AlertPercent: cfg.Dashboard.AlertPercent,
		ChartDays:    cfg.Dashboard.ChartDays,
	})

	port := cfg.Dashboard.Port

	ip := GetOutboundIP()
	if ip != nil {
		fmt.Printf("Local Network URL: http://%s:%s\n", ip.String(), port)
	} else {
		fmt.Println("Could not determine local IP address.")
	}
	fmt.Printf("Access URL: http://localhost:%s\n", port)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sugar.Infof("Dashboard listening on :%s", port)
	sugar.Fatal(server.ListenAndServe())
}

func GetOutboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		addrs, _ := net.InterfaceAddrs()
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					return ipnet.IP
				}
			}
		}
		return nil
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)

	return localAddr.IP
}
