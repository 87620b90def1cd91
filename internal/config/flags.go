package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses daemon command-line flags.
//
// Flags:
//
//	-a feed server listen address in format [host]:[port]
//	-r remote change feed address
//	-driver storage driver (sqlite, postgres, memory)
//	-d database DSN
//	-snapshot in-memory mirror snapshot path
//	-seed feed server seed file path
//	-i sync interval (e.g., "5m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-missing-policy drop or stall
//	-log-level zerolog level name
//	-c/-config json or yaml file path with configs
func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var adapterAddress string
	var driver, databaseDSN, snapshotPath, seedPath string
	var syncInterval, requestTimeout time.Duration
	var missingPolicy, logLevel string
	var configPath string

	fs := flag.NewFlagSet("go-news-sync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&adapterAddress, "r", "", "Remote change feed address")
	fs.StringVar(&driver, "driver", "", "Storage driver: sqlite, postgres or memory")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&snapshotPath, "snapshot", "", "In-memory mirror snapshot path")
	fs.StringVar(&seedPath, "seed", "", "Feed seed file path")
	fs.DurationVar(&syncInterval, "i", 0, "Sync interval (e.g., 5m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&missingPolicy, "missing-policy", "", "Unresolved entity policy: drop or stall")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&configPath, "c", "", "Config file path")
	fs.StringVar(&configPath, "config", "", "Config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Log: Log{Level: logLevel},
		Storage: Storage{
			DB: DB{
				Driver: driver,
				DSN:    databaseDSN,
			},
			Memory: Memory{SnapshotPath: snapshotPath},
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			RequestTimeout: requestTimeout,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			SeedPath:       seedPath,
		},
		Workers:  Workers{SyncInterval: syncInterval},
		Sync:     Sync{MissingPolicy: missingPolicy},
		FilePath: configPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
