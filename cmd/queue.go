package cmd

import (
	"context"
	"github.com/nats-io/nats.go/jetstream"
	"log"
	"log/slog"
	"os"
	"ru-ticket/common/constant"
	"ru-ticket/inbound/event"
	"ru-ticket/outbound/querier"
	"runtime/pprof"
	"time"
)

func runQueueTicketCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("ticket-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	shutdownTracing := newOtel(ctx, cfg)
	defer shutdownTracing(context.Background())

	db := newDb(cfg)
	defer db.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	st := createStreamWorkQueue(ctx, cfg, js)

	ticketEvent := event.TicketEvent{
		Querier: querier.New(db),
		Timeout: cfg.GetDuration("queue.ticket.timeout"),
	}
	if ticketEvent.Timeout <= 0 {
		ticketEvent.Timeout = 5 * time.Second
	}

	cons, err := st.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       "consumer:ticket",
		FilterSubject: constant.TicketWildcard,
		MaxDeliver:    cfg.GetInt("queue.ticket.max_deliver"),
		AckWait:       cfg.GetDuration("queue.ticket.ack_wait"),
	})
	if err != nil {
		log.Fatalln("failed to create consumer", err)
	}

	iter, err := cons.Messages()
	if err != nil {
		panic(err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := iter.Next()
				if err != nil {
					if err == jetstream.ErrMsgIteratorClosed {
						return
					}
					slog.ErrorContext(ctx, "Error fetching message", slog.Any(constant.LogFieldErr, err))
					continue
				}

				if msg == nil {
					continue
				}

				if err := ticketEvent.RecordHandler(ctx, msg.Subject(), msg.Data()); err != nil {
					msg.NakWithDelay(1 * time.Second)
					continue
				}

				if err := msg.Ack(); err != nil {
					slog.ErrorContext(ctx, "Error acknowledging message",
						slog.Any(constant.LogFieldErr, err),
						slog.Any(constant.LogFieldPayload, string(msg.Data())),
						slog.String("subject", msg.Subject()),
					)
					continue
				}
			}
		}
	}()

	slog.InfoContext(ctx, "ticket queue consumer started")

	<-ctx.Done()

	iter.Stop()

	slog.InfoContext(ctx, "ticket queue consumer stopped")
}
