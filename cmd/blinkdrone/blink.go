package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/spf13/cobra"

	"blinkdrone/internal/config"
)

var (
	blinkHost     string
	blinkPort     int
	blinkAddress  string
	blinkValue    int
	blinkCount    int
	blinkInterval time.Duration
)

var blinkCmd = &cobra.Command{
	Use:   "blink",
	Short: "Send test blink events",
	Long:  "blink sends OSC messages shaped like the Muse blink element to a running fly instance.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if blinkCount < 1 {
			return fmt.Errorf("count must be at least 1")
		}
		client := osc.NewClient(blinkHost, blinkPort)
		return sendBlinks(cmd.Context(), client, blinkAddress, int32(blinkValue), blinkCount, blinkInterval, cmd.OutOrStdout())
	},
}

func init() {
	blinkCmd.Flags().StringVar(&blinkHost, "host", config.DefaultHost, "Target host")
	blinkCmd.Flags().IntVar(&blinkPort, "port", config.DefaultPort, "Target port")
	blinkCmd.Flags().StringVar(&blinkAddress, "address", config.DefaultAddress, "OSC address")
	blinkCmd.Flags().IntVar(&blinkValue, "value", 1, "Payload; only 1 counts as a blink")
	blinkCmd.Flags().IntVar(&blinkCount, "count", 1, "Number of messages to send")
	blinkCmd.Flags().DurationVar(&blinkInterval, "interval", 500*time.Millisecond, "Delay between messages")
}

type oscSender interface {
	Send(packet osc.Packet) error
}

func sendBlinks(ctx context.Context, client oscSender, address string, value int32, count int, interval time.Duration, out io.Writer) error {
	for i := 1; i <= count; i++ {
		if err := client.Send(osc.NewMessage(address, value)); err != nil {
			return fmt.Errorf("send blink %d: %w", i, err)
		}
		fmt.Fprintf(out, "sent %s %d (%d/%d)\n", address, value, i, count)
		if i == count {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil
}
