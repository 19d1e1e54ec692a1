// Command client submits transactions to a serving node and inspects its
// stats and metrics.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/delftdata/Gaia/client"
)

var (
	flagHost     string
	flagPort     uint32
	flagRepeat   uint64
	flagNoWait   bool
	flagTruncate int
)

func main() {
	root := &cobra.Command{
		Use:           "client",
		Short:         "Client for a Gaia serving node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagHost, "host", "localhost", "Hostname of the server to connect to")
	root.PersistentFlags().Uint32Var(&flagPort, "port", 2021, "Port number of the server to connect to")
	root.PersistentFlags().Uint64Var(&flagRepeat, "repeat", 1, "Used with \"txn\". Send the txn multiple times")
	root.PersistentFlags().BoolVar(&flagNoWait, "no_wait", false, "Don't wait for reply")
	root.PersistentFlags().IntVar(&flagTruncate, "truncate", 50, "Number of lines to truncate the output at")

	root.AddCommand(newTxnCommand(), newStatsCommand(), newMetricsCommand())

	if err := root.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func dial() (*client.Conn, error) {
	return client.Dial(flagHost, flagPort)
}

func newTxnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "txn <file.json>",
		Short: "Submit the transaction described in a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := client.LoadTxnFile(args[0])
			if err != nil {
				return err
			}
			txn, err := f.BuildTransaction()
			if err != nil {
				return err
			}

			conn, err := dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			for i := uint64(0); i < flagRepeat; i++ {
				if err := conn.Send(&client.Request{Txn: &client.TxnRequest{Txn: txn}}); err != nil {
					return err
				}
			}
			if flagNoWait {
				return nil
			}
			for i := uint64(0); i < flagRepeat; i++ {
				res, err := conn.Recv()
				if err != nil {
					return err
				}
				if res.Txn == nil || res.Txn.Txn == nil {
					return fmt.Errorf("malformed response")
				}
				fmt.Print(res.Txn.Txn)
				printEvents(res)
			}
			return nil
		},
	}
}

func printEvents(res *client.Response) {
	events := res.Txn.Txn.Internal.Events
	if len(events) == 0 {
		return
	}
	fmt.Printf("%-40s%8s%22s%7s\n", "Tracing event", "Machine", "Time", "Home")
	for _, e := range events {
		fmt.Printf("%-40s%8s%22d%7d\n", e.Event, e.Machine, e.Time, e.Home)
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <server|forwarder|sequencer|scheduler> [<level>]",
		Short: "Print a stats report of a server module",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			module := args[0]
			level := uint64(0)
			if len(args) == 2 {
				var err error
				if level, err = strconv.ParseUint(args[1], 10, 64); err != nil {
					return err
				}
			}

			conn, err := dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Send(&client.Request{Stats: &client.StatsRequest{Module: module, Level: level}}); err != nil {
				return err
			}
			if flagNoWait {
				return nil
			}
			res, err := conn.Recv()
			if err != nil {
				return err
			}
			if res.Stats == nil {
				return fmt.Errorf("malformed response")
			}
			return client.PrintStats(os.Stdout, module, res.Stats.StatsJSON, level, flagTruncate)
		},
	}
}

func newMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics [<prefix>]",
		Short: "Flush server metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := "."
			if len(args) == 1 {
				prefix = args[0]
			}

			conn, err := dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Send(&client.Request{Metrics: &client.MetricsRequest{Prefix: prefix}}); err != nil {
				return err
			}
			if flagNoWait {
				return nil
			}
			if _, err := conn.Recv(); err != nil {
				return err
			}
			log.Info("metrics flushed")
			return nil
		},
	}
}
