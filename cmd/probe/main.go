// Command probe is a terminal client for poking a running relay: it allocates
// or joins a session, prints every event it receives, and relays stdin lines
// as text messages. Useful for manual two-terminal smoke tests.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/olekukonko/tablewriter"

	"github.com/Harshmalhotra78898/LiveInteract/observability"
	"github.com/Harshmalhotra78898/LiveInteract/ws"
)

func main() {
	pin := flag.String("pin", "", "session PIN to join (empty allocates a new one)")
	stats := flag.Bool("stats", false, "print relay stats and exit")
	flag.Parse()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if !cfg.Colours {
		color.Disable()
	}

	if *stats {
		if err := printStats(cfg); err != nil {
			log.Fatalf("stats failed: %v", err)
		}
		return
	}

	code := *pin
	if code == "" {
		code, err = allocatePIN(cfg)
		if err != nil {
			log.Fatalf("pin allocation failed: %v", err)
		}
		color.Green.Printf("Allocated session PIN: %s\n", code)
	}

	conn, err := dial(cfg)
	if err != nil {
		log.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	send(conn, "joinSession", map[string]string{"pin": code})

	go receiveLoop(conn)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "/leave" || line == "/quit":
			send(conn, "leaveSession", nil)
			return
		default:
			send(conn, "sendMessage", map[string]string{"content": line})
		}
	}
}

// dial retries the websocket handshake with exponential backoff, so the probe
// can be started before the relay is up.
func dial(cfg Config) (*websocket.Conn, error) {
	wsURL := strings.Replace(cfg.Server, "http", "ws", 1) + "/ws"

	var conn *websocket.Conn
	operation := func() error {
		c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			color.Yellow.Printf("dial %s failed (%v), retrying...\n", wsURL, err)
			return err
		}
		conn = c
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(cfg.DialRetries))
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return conn, nil
}

func send(conn *websocket.Conn, event string, data any) {
	env := ws.Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			color.Red.Printf("encode %s failed: %v\n", event, err)
			return
		}
		env.Data = raw
	}
	if err := conn.WriteJSON(env); err != nil {
		color.Red.Printf("send %s failed: %v\n", event, err)
	}
}

func receiveLoop(conn *websocket.Conn) {
	for {
		var env ws.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			color.Red.Println("connection closed")
			os.Exit(0)
		}

		switch env.Event {
		case "sessionJoined":
			color.Green.Printf("joined: %s\n", env.Data)
		case "sessionStarted":
			color.Green.Printf("session started: %s\n", env.Data)
		case "newMessage":
			color.Cyan.Printf("message: %s\n", env.Data)
		case "loadMessages":
			color.Cyan.Printf("history: %s\n", env.Data)
		case "participantLeft":
			color.Yellow.Println("the other participant left")
		case "sessionExpired":
			color.Yellow.Println("session expired")
		case "error":
			color.Red.Printf("error: %s\n", env.Data)
		default:
			fmt.Printf("%s: %s\n", env.Event, env.Data)
		}
	}
}

func allocatePIN(cfg Config) (string, error) {
	resp, err := http.Post(cfg.Server+"/api/generate-pin", "application/json", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.PIN, nil
}

func printStats(cfg Config) error {
	resp, err := http.Get(cfg.Server + "/api/stats")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var stats observability.RelayStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	rows := [][]string{
		{"live sessions", strconv.Itoa(stats.LiveSessions)},
		{"live participants", strconv.Itoa(stats.LiveParticipants)},
		{"sessions created", strconv.FormatUint(stats.SessionsCreated, 10)},
		{"sessions activated", strconv.FormatUint(stats.SessionsActivated, 10)},
		{"sessions expired", strconv.FormatUint(stats.SessionsExpired, 10)},
		{"sessions emptied", strconv.FormatUint(stats.SessionsEmptied, 10)},
		{"joins rejected", strconv.FormatUint(stats.JoinsRejected, 10)},
		{"messages relayed", strconv.FormatUint(stats.MessagesRelayed, 10)},
		{"messages dropped", strconv.FormatUint(stats.MessagesDropped, 10)},
		{"uptime (s)", strconv.FormatInt(stats.UptimeSeconds, 10)},
	}
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	return nil
}
