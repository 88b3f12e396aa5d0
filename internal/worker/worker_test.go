package worker_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/mail"
	"hktplatform.app/api/internal/queue"
	"hktplatform.app/api/internal/worker"
)

var _ = Describe("Worker", func() {
	var (
		ctx       context.Context
		consumer  *mockConsumer
		deliverer *mockDeliverer
		w         *worker.Worker
	)

	message := func(attempt int) queue.Message {
		return queue.Message{
			ID:      "1-0",
			Attempt: attempt,
			Job: domain.EmailJob{
				ID:      7,
				Kind:    domain.EmailWelcome,
				To:      "ada@example.com",
				Data:    map[string]string{"name": "Ada"},
				Attempt: attempt,
			},
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		deliverer = &mockDeliverer{}
		w = worker.New(consumer, deliverer, worker.Config{MaxAttempts: 3})
	})

	Describe("HandleMessage", func() {
		It("delivers and acknowledges", func() {
			Expect(w.HandleMessage(ctx, message(1))).To(Succeed())

			Expect(deliverer.delivered).To(HaveLen(1))
			Expect(deliverer.delivered[0].To).To(Equal("ada@example.com"))
			Expect(consumer.acked).To(HaveLen(1))
			Expect(consumer.requeued).To(BeEmpty())
			Expect(consumer.dlq).To(BeEmpty())
		})

		It("requeues transient failures below the attempt limit", func() {
			deliverer.deliverFn = func(context.Context, domain.EmailJob) error {
				return errors.New("smtp timeout")
			}

			Expect(w.HandleMessage(ctx, message(2))).To(MatchError("smtp timeout"))
			Expect(consumer.requeued).To(HaveLen(1))
			Expect(consumer.dlq).To(BeEmpty())
			Expect(consumer.acked).To(BeEmpty())
		})

		It("moves the message to the DLQ at the attempt limit", func() {
			deliverer.deliverFn = func(context.Context, domain.EmailJob) error {
				return errors.New("smtp timeout")
			}

			Expect(w.HandleMessage(ctx, message(3))).To(HaveOccurred())
			Expect(consumer.dlq).To(HaveLen(1))
			Expect(consumer.requeued).To(BeEmpty())
		})

		It("dead-letters permanent failures on the first attempt", func() {
			deliverer.deliverFn = func(context.Context, domain.EmailJob) error {
				return fmt.Errorf("rendering: %w", mail.ErrPermanent)
			}

			Expect(w.HandleMessage(ctx, message(1))).To(HaveOccurred())
			Expect(consumer.dlq).To(HaveLen(1))
			Expect(consumer.requeued).To(BeEmpty())
		})

		It("recovers from a panicking deliverer", func() {
			deliverer.deliverFn = func(context.Context, domain.EmailJob) error {
				panic("nil template")
			}

			err := w.HandleMessage(ctx, message(1))
			Expect(err).To(MatchError(ContainSubstring("panic: nil template")))
			Expect(consumer.requeued).To(HaveLen(1))
		})

		It("still succeeds when the ack fails", func() {
			consumer.ackFn = func(context.Context, queue.Message) error { return errors.New("redis down") }
			Expect(w.HandleMessage(ctx, message(1))).To(Succeed())
		})
	})

	Describe("Run", func() {
		It("processes batches until stopped", func() {
			delivered := make(chan struct{}, 1)
			var served bool
			consumer.readFn = func(ctx context.Context) ([]queue.Message, error) {
				if served {
					time.Sleep(5 * time.Millisecond)
					return nil, nil
				}
				served = true
				return []queue.Message{message(1)}, nil
			}
			deliverer.deliverFn = func(context.Context, domain.EmailJob) error {
				delivered <- struct{}{}
				return nil
			}

			done := make(chan error, 1)
			go func() { done <- w.Run(ctx) }()

			Eventually(delivered).Should(Receive())
			w.Stop()
			Eventually(done).Should(Receive(BeNil()))
		})

		It("returns when the context is cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			consumer.readFn = func(context.Context) ([]queue.Message, error) {
				time.Sleep(time.Millisecond)
				return nil, nil
			}

			done := make(chan error, 1)
			go func() { done <- w.Run(runCtx) }()
			cancel()

			Eventually(done).Should(Receive(MatchError(context.Canceled)))
		})
	})
})
