package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeCreateTable = 101
	MsgTypeJoinTable   = 102
	MsgTypeBid         = 201
	MsgTypePlayCard    = 202
)

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	name := flag.String("name", "player", "display name")
	tableID := flag.String("table", "", "table to join; empty creates a new table")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	join := map[string]string{"name": *name}
	joinData, _ := json.Marshal(join)
	if *tableID == "" {
		log.Println("Creating a table...")
		if err := send(c, MsgTypeCreateTable, joinData); err != nil {
			log.Println("Write error:", err)
			return
		}
	} else {
		join["table_id"] = *tableID
		joinData, _ = json.Marshal(join)
		log.Printf("Joining table %s...", *tableID)
		if err := send(c, MsgTypeJoinTable, joinData); err != nil {
			log.Println("Write error:", err)
			return
		}
	}

	log.Println("Client started. Commands: 'bid <1-13|nil>', 'play <card>' (e.g. play AS, play 10h).")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}

			parts := strings.SplitN(text, " ", 2)
			if len(parts) != 2 {
				log.Println("Unknown command. Use 'bid <value>' or 'play <card>'.")
				continue
			}

			action := map[string]string{"value": parts[1]}
			actionData, _ := json.Marshal(action)

			switch parts[0] {
			case "bid":
				if err := send(c, MsgTypeBid, actionData); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Printf("-> SENT: bid %s", parts[1])
			case "play":
				if err := send(c, MsgTypePlayCard, actionData); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Printf("-> SENT: play %s", parts[1])
			default:
				log.Println("Unknown command. Use 'bid <value>' or 'play <card>'.")
			}
		}
	}
}
