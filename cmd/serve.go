package cmd

import (
	"context"
	"errors"
	"io/ioutil"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	reuseport "github.com/kavu/go_reuseport"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/msdgwzhy6/dmix/client"
	"github.com/msdgwzhy6/dmix/internal/env"
	"github.com/msdgwzhy6/dmix/transport"
)

var (
	// The host to listen for http requests on
	host string

	// The port to listen for http requests on
	httpPort string

	// The MPD server to control
	mpdHost string
	mpdPort int
)

func init() {
	flags := ServeCmd.PersistentFlags()

	flags.StringVar(&httpPort, "http-port", "7364", "The port to listen to HTTP requests on")
	flags.StringVarP(&host, "host", "a", "0.0.0.0", "The host to listen on")
	flags.StringVar(&mpdHost, "mpd-host", "127.0.0.1", "The MPD server host, or a unix socket path")
	flags.IntVar(&mpdPort, "mpd-port", 6600, "The MPD server port")
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dmix HTTP control bridge",
	Long: `Start the dmix HTTP control bridge

Exposes a small HTTP surface over a single MPD connection, batching
playlist edits into command lists.

Usage
	dmix serve

`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
		defer signalStop()

		log, err := env.MakeLogger()
		if err != nil {
			return err
		}

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		conn := transport.New(transport.Options{
			Host:           mpdHost,
			Port:           mpdPort,
			ConnectTimeout: 5 * time.Second,
			Log:            log,
		})

		if err := conn.Connect(ctx); err != nil {
			return err
		}

		mpd := client.New(conn, log)

		if conf.MPDPassword != "" {
			if err := mpd.Password(conf.MPDPassword); err != nil {
				return err
			}
		}

		router := setupRouter(conf.DebugHTTP, log)

		router.GET("/health", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Ping test, end to end through the MPD connection
		router.GET("/ping", func(c *gin.Context) {
			if err := mpd.Ping(); err != nil {
				c.String(http.StatusBadGateway, err.Error())
				return
			}

			c.String(http.StatusOK, "pong")
		})

		router.GET("/status", func(c *gin.Context) {
			doc, err := mpd.StatusJSON()
			if err != nil {
				c.String(http.StatusBadGateway, err.Error())
				return
			}

			c.Data(http.StatusOK, "application/json", doc)
		})

		router.POST("/playlist/delete", func(c *gin.Context) {
			body, err := ioutil.ReadAll(c.Request.Body)
			if err != nil {
				c.String(http.StatusBadRequest, err.Error())
				return
			}

			positions := []int{}
			for _, p := range gjson.GetBytes(body, "positions").Array() {
				positions = append(positions, int(p.Int()))
			}

			if err := mpd.DeleteAt(positions...); err != nil {
				c.String(http.StatusBadGateway, err.Error())
				return
			}

			c.Status(http.StatusNoContent)
		})

		router.POST("/playlist/add", func(c *gin.Context) {
			body, err := ioutil.ReadAll(c.Request.Body)
			if err != nil {
				c.String(http.StatusBadRequest, err.Error())
				return
			}

			uris := []string{}
			for _, uri := range gjson.GetBytes(body, "uris").Array() {
				uris = append(uris, uri.String())
			}

			if err := mpd.Add(uris...); err != nil {
				c.String(http.StatusBadGateway, err.Error())
				return
			}

			c.Status(http.StatusNoContent)
		})

		s := &http.Server{
			Handler: router,
		}

		listener, err := reuseport.Listen("tcp", net.JoinHostPort(host, httpPort))
		if err != nil {
			return err
		}

		// Initializing the server in a goroutine so that
		// it won't block the graceful shutdown handling below
		go func() {
			if err := s.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
			}
		}()

		log.Info("Listening",
			zap.Any("config", conf),
			zap.String("host", host),
			zap.String("httpPort", httpPort),
			zap.String("mpdVersion", conn.Version()))

		// Listen for the interrupt signal.
		<-ctx.Done()

		// Restore default behavior on the interrupt signal and notify user of shutdown.
		signalStop()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if err := s.Shutdown(ctx); err != nil {
			log.Error("Http server forced to shutdown", zap.Error(err))
		}

		if err := conn.Close(); err != nil {
			log.Error("MPD connection did not close cleanly", zap.Error(err))
		}

		log.Info("Exiting")
		return nil
	},
}

func setupRouter(debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - Logs to stdout.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))

	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	return r
}
