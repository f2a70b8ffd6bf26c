package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"tcppong/internal/config"
	"tcppong/internal/lobby"
	"tcppong/internal/pong"
)

func main() {
	var path string
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	config.LoadConfig(path)
	cfg := config.Config
	slog.SetLogLoggerLevel(slog.Level(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting tcppong lobby...")
	l := lobby.CreateLobby(slog.Default(),
		pong.WithTickInterval(cfg.Tick()),
		pong.WithReadTimeout(cfg.ReadTimeout()),
		pong.WithWriteTimeout(cfg.WriteTimeout()))
	l.HandshakeTimeout = cfg.HandshakeTimeout()
	go l.Run()
	defer l.Close()

	if err := LobbyListen(ctx, cfg.Address, l); err != nil {
		slog.Error("Error setting up listener for lobby. Exiting...", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// LobbyListen accepts TCP connections on address and hands each one to the
// lobby until ctx is done.
func LobbyListen(ctx context.Context, address string, l *lobby.Lobby) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	slog.Info("Lobby started", slog.String("address", listener.Addr().String()))

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Warn("Failed to accept connection", slog.Any("error", err))
			continue
		}
		slog.Debug("Accepted connection", slog.String("remote", conn.RemoteAddr().String()))
		go l.HandleLobbyConnection(conn)
	}
}
