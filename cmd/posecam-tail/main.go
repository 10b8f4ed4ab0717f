// Posecam-tail - follow the landmark feed of a running posecam-web
//
// Connects to the pose websocket and prints one line per frame.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"github.com/dcalleja/go-posecam/pkg/hub"
	"github.com/dcalleja/go-posecam/pkg/pose"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "posecam-web host:port")
	verbose := flag.Bool("v", false, "Print full landmark sets, not just a summary")
	flag.Parse()

	url := fmt.Sprintf("ws://%s/ws/pose", *addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", url, err)
		os.Exit(1)
	}
	defer conn.Close()

	// Close the socket on Ctrl+C so ReadMessage unblocks
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		conn.Close()
	}()

	fmt.Printf("📡 Following %s\n", url)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Println("feed closed")
			return
		}

		var ev hub.PoseEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}

		if !ev.Detected {
			fmt.Printf("frame %6d  no body\n", ev.Frame)
			continue
		}
		if *verbose {
			out, _ := json.MarshalIndent(ev.Pose, "", "  ")
			fmt.Printf("frame %6d  score %.2f\n%s\n", ev.Frame, ev.Pose.Score, out)
			continue
		}
		nose := ev.Pose.At(pose.Nose)
		fmt.Printf("frame %6d  score %.2f  nose (%.2f, %.2f)\n",
			ev.Frame, ev.Pose.Score, nose.X, nose.Y)
	}
}
