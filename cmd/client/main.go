package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"tcppong/internal/client"
	"tcppong/internal/config"
	"tcppong/internal/renderer"
)

// Usage: client [name] [config path]
func main() {
	var path string
	if len(os.Args) > 2 {
		path = os.Args[2]
	}
	config.LoadConfig(path)

	name := config.Config.Name
	if len(os.Args) > 1 && os.Args[1] != "" {
		name = os.Args[1]
	}

	if err := run(config.Config, name); err != nil {
		fmt.Fprintln(os.Stderr, "Sorry,", err)
		os.Exit(1)
	}
}

func run(cfg config.Configuration, name string) error {
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer logFile.Close()

	log := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(log)

	conn, err := ConnectToLobby(cfg.Address, name)
	if err != nil {
		return err
	}
	fmt.Println("Welcome to tcppong! Waiting for an opponent...")

	term, err := renderer.NewTerminal(os.Stdin, os.Stdout)
	if err != nil {
		conn.Close()
		return err
	}
	defer term.Close()

	inputs := make(chan client.Direction, 16)
	done := make(chan struct{})
	defer close(done)
	go renderer.ReadKeys(os.Stdin, inputs, done)

	return client.Game(conn, term, inputs, log)
}

func ConnectToLobby(address, name string) (net.Conn, error) {
	slog.Debug("connecting to server...", slog.String("address", address))
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	if _, err := conn.Write([]byte(name)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not communicate with server: %w", err)
	}
	slog.Info("Connected", slog.String("name", name))

	return conn, nil
}
