package service

import (
	"context"
	"errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"log/slog"
	"ru-ticket/common/constant"
	"ru-ticket/common/errs"
	jetsteamMock "ru-ticket/common/jetstream/mocks"
	"ru-ticket/eligibility"
	"ru-ticket/model"
	"ru-ticket/outbound/extras"
	"ru-ticket/outbound/pix"
	"ru-ticket/outbound/ticketstore"
	"sync"
	"testing"
	"time"
)

type TicketServiceTestSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	publisher *jetsteamMock.MockPublisher
	tickets   *ticketstore.Memory
	extras    *extras.Memory
	service   *TicketService
}

func (s *TicketServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.publisher = jetsteamMock.NewMockPublisher(s.ctrl)
	s.tickets = ticketstore.NewMemory()
	s.extras = extras.NewMemory(100)

	generator := pix.NewGenerator(pix.Receiver{Key: "+5541991159514", Name: "RU UFMG", City: "BELO HORIZONTE"}, 1)
	s.service = NewTicketService(s.tickets, s.extras, generator, s.publisher)
	s.service.TimeNow = func() time.Time {
		return time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	}

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *TicketServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestTicketServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TicketServiceTestSuite))
}

func (s *TicketServiceTestSuite) expectPublish(subject string, times int) {
	s.publisher.EXPECT().Publish(gomock.Any(), subject, gomock.Any()).Return(nil, nil).Times(times)
}

func (s *TicketServiceTestSuite) assertInvariant(id string) {
	ticket, err := s.tickets.Get(context.Background(), id)
	s.Require().NoError(err)
	s.True(!ticket.Validated || ticket.Paid, "validated ticket must be paid")
}

func (s *TicketServiceTestSuite) TestFreeMealScenario() {
	ctx := context.Background()
	now := time.Date(2025, 1, 6, 7, 30, 0, 0, time.UTC)

	engine := eligibility.NewEngine(nil, time.UTC, false)
	meal, ok := engine.CurrentMeal(eligibility.Setorial2, now)
	s.Require().True(ok)
	s.Equal(eligibility.Breakfast, meal)

	category, _ := eligibility.LookupCategory("fump1")
	price, err := eligibility.MealPrice(category, meal)
	s.Require().NoError(err)
	s.Zero(price)

	s.expectPublish(constant.SubjectTicketCreated, 1)
	s.expectPublish(constant.SubjectTicketPaid, 1)
	s.expectPublish(constant.SubjectTicketValidated, 1)

	id, err := s.service.CreateTicket(ctx, model.CreateTicketRequest{
		Name:       "Ana Souza",
		Category:   "fump1",
		Price:      &price,
		Restaurant: string(eligibility.Setorial2),
		Meal:       string(meal),
	})
	s.Require().NoError(err)
	s.assertInvariant(id)

	s.Require().NoError(s.service.MarkPaid(ctx, id))
	s.assertInvariant(id)

	resp := s.service.Validate(ctx, RedemptionCode(id))
	s.True(resp.Ok)
	s.Equal(constant.OutcomeAccepted, resp.Code)
	s.Equal("Entrada liberada!", resp.Reason)
	s.Equal("Ana Souza", resp.Name)
	s.Equal("fump1", resp.Category)
	s.Require().NotNil(resp.Restaurant)
	s.Equal("setorial2", *resp.Restaurant)
	s.Require().NotNil(resp.Meal)
	s.Equal("breakfast", *resp.Meal)
	s.Require().NotNil(resp.Amount)
	s.Zero(*resp.Amount)
	s.Nil(resp.Photo)
	s.assertInvariant(id)

	resp = s.service.Validate(ctx, RedemptionCode(id))
	s.False(resp.Ok)
	s.Equal(constant.OutcomeAlreadyUsed, resp.Code)
	s.Equal("QR-CODE já utilizado!", resp.Reason)
}

func (s *TicketServiceTestSuite) TestPaidMealScenario() {
	ctx := context.Background()

	category, _ := eligibility.LookupCategory("estudante")
	price, err := eligibility.MealPrice(category, eligibility.Lunch)
	s.Require().NoError(err)
	s.EqualValues(560, price)

	s.expectPublish(constant.SubjectTicketCreated, 1)
	s.expectPublish(constant.SubjectTicketPaid, 1)
	s.expectPublish(constant.SubjectTicketValidated, 1)

	id, err := s.service.CreateTicket(ctx, model.CreateTicketRequest{
		Name:     "Bruno Lima",
		Category: "estudante",
		Price:    &price,
	})
	s.Require().NoError(err)

	amount := price
	s.Require().NoError(s.service.AttachExtras(ctx, id, model.TicketExtras{
		Restaurant: "saude",
		Meal:       "lunch",
		Amount:     &amount,
		Photo:      "data:image/png;base64,AAAA",
	}))

	ref, err := s.service.GeneratePaymentReference(ctx, id)
	s.Require().NoError(err)
	s.EqualValues(1, ref.Amount)
	s.EqualValues(560, ref.TicketPrice)
	s.Equal("+5541991159514", ref.ReceiverKey)
	s.Contains(ref.Payload, "54040.01")

	again, err := s.service.GeneratePaymentReference(ctx, id)
	s.Require().NoError(err)
	s.Equal(ref, again)

	for i := 0; i < 3; i++ {
		s.False(s.service.GetPaymentStatus(ctx, id).Paid)
		resp := s.service.Validate(ctx, id)
		s.Equal(constant.OutcomePaymentPending, resp.Code)
		s.Equal("Pagamento pendente!", resp.Reason)
		s.assertInvariant(id)
	}

	s.Require().NoError(s.service.MarkPaid(ctx, id))
	s.Require().NoError(s.service.MarkPaid(ctx, id))
	s.True(s.service.GetPaymentStatus(ctx, id).Paid)

	resp := s.service.Validate(ctx, id)
	s.Equal(constant.OutcomeAccepted, resp.Code)
	s.Require().NotNil(resp.Amount)
	s.EqualValues(560, *resp.Amount)
	s.Require().NotNil(resp.Photo)
	s.Equal("data:image/png;base64,AAAA", *resp.Photo)
	s.assertInvariant(id)
}

func (s *TicketServiceTestSuite) TestCreateTicketInvalidInput() {
	tests := []struct {
		name     string
		req      model.CreateTicketRequest
		expected map[string]string
	}{
		{
			name:     "missing name and category",
			req:      model.CreateTicketRequest{Name: "  "},
			expected: map[string]string{"name": "required", "category": "required"},
		},
		{
			name:     "unknown category",
			req:      model.CreateTicketRequest{Name: "Ana Souza", Category: "docente"},
			expected: map[string]string{"category": "unknown"},
		},
		{
			name: "negative price",
			req: func() model.CreateTicketRequest {
				price := model.Money(-1)
				return model.CreateTicketRequest{Name: "Ana Souza", Category: "estudante", Price: &price}
			}(),
			expected: map[string]string{"price": "min"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := s.service.CreateTicket(context.Background(), tc.req)
			s.ErrorIs(err, errs.ErrInvalidInput)

			var invalid *errs.InvalidInput
			s.Require().True(errors.As(err, &invalid))
			s.Equal(tc.expected, invalid.Fields)
		})
	}
}

func (s *TicketServiceTestSuite) TestCreateTicketDefaults() {
	s.expectPublish(constant.SubjectTicketCreated, 1)

	id, err := s.service.CreateTicket(context.Background(), model.CreateTicketRequest{Name: "Ana Souza", Category: "visitante"})
	s.Require().NoError(err)

	ticket, err := s.tickets.Get(context.Background(), id)
	s.Require().NoError(err)
	s.Zero(ticket.Price)
	s.Equal("none", ticket.Priority)
	s.False(ticket.Paid)

	_, found, _ := s.extras.Get(context.Background(), id)
	s.False(found)
}

func (s *TicketServiceTestSuite) TestPublishFailureDoesNotFailTransition() {
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("nats: no responders")).Times(3)

	ctx := context.Background()
	id, err := s.service.CreateTicket(ctx, model.CreateTicketRequest{Name: "Ana Souza", Category: "servidor"})
	s.Require().NoError(err)
	s.Require().NoError(s.service.MarkPaid(ctx, id))
	s.Equal(constant.OutcomeAccepted, s.service.Validate(ctx, id).Code)
}

func (s *TicketServiceTestSuite) TestWithoutPublisher() {
	s.service.Publisher = nil

	ctx := context.Background()
	id, err := s.service.CreateTicket(ctx, model.CreateTicketRequest{Name: "Ana Souza", Category: "servidor"})
	s.Require().NoError(err)
	s.Require().NoError(s.service.MarkPaid(ctx, id))
	s.Equal(constant.OutcomeAccepted, s.service.Validate(ctx, id).Code)
}

func (s *TicketServiceTestSuite) TestUnknownTicket() {
	ctx := context.Background()

	s.ErrorIs(s.service.MarkPaid(ctx, "TCK-missing"), errs.ErrNotFound)
	s.ErrorIs(s.service.AttachExtras(ctx, "TCK-missing", model.TicketExtras{Meal: "lunch"}), errs.ErrNotFound)

	_, err := s.service.GeneratePaymentReference(ctx, "TCK-missing")
	s.ErrorIs(err, errs.ErrNotFound)

	s.False(s.service.GetPaymentStatus(ctx, "TCK-missing").Paid)

	resp := s.service.Validate(ctx, "SQRU|TCK-missing")
	s.False(resp.Ok)
	s.Equal(constant.OutcomeNotFound, resp.Code)
	s.Equal("Ticket inexistente.", resp.Reason)
}

func (s *TicketServiceTestSuite) TestValidateMissingTicket() {
	for _, code := range []string{"", "   ", "SQRU|"} {
		resp := s.service.Validate(context.Background(), code)
		s.Equal(constant.OutcomeMissingTicket, resp.Code, code)
		s.Equal("Ticket não enviado.", resp.Reason)
	}
}

func (s *TicketServiceTestSuite) TestStoreFailure() {
	s.service.Tickets = failingStore{}

	ctx := context.Background()

	resp := s.service.Validate(ctx, "TCK-1")
	s.Equal(constant.OutcomeServerError, resp.Code)
	s.Equal("Erro no servidor.", resp.Reason)

	s.False(s.service.GetPaymentStatus(ctx, "TCK-1").Paid)

	err := s.service.MarkPaid(ctx, "TCK-1")
	s.True(errs.IsStorageError(err))
}

func (s *TicketServiceTestSuite) TestConcurrentValidateSingleAcceptance() {
	ctx := context.Background()
	s.expectPublish(constant.SubjectTicketCreated, 1)
	s.expectPublish(constant.SubjectTicketPaid, 1)
	s.expectPublish(constant.SubjectTicketValidated, 1)

	id, err := s.service.CreateTicket(ctx, model.CreateTicketRequest{Name: "Ana Souza", Category: "fump3"})
	s.Require().NoError(err)
	s.Require().NoError(s.service.MarkPaid(ctx, id))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = make(map[string]int)
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.service.Validate(ctx, id)
			mu.Lock()
			codes[resp.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Equal(1, codes[constant.OutcomeAccepted])
	s.Equal(31, codes[constant.OutcomeAlreadyUsed])
}

func (s *TicketServiceTestSuite) TestParseRedemptionCode() {
	s.Equal("TCK-1", ParseRedemptionCode("SQRU|TCK-1"))
	s.Equal("TCK-1", ParseRedemptionCode(" TCK-1 "))
	s.Equal("", ParseRedemptionCode("SQRU|"))
	s.Equal("SQRU|TCK-1", RedemptionCode("TCK-1"))
}

type failingStore struct{}

func (failingStore) Create(context.Context, model.Ticket) (string, error) {
	return "", errs.NewStorageError("create ticket", errors.New("connection refused"))
}

func (failingStore) Get(context.Context, string) (model.Ticket, error) {
	return model.Ticket{}, errs.NewStorageError("find ticket", errors.New("connection refused"))
}

func (failingStore) MarkPaid(context.Context, string) (bool, error) {
	return false, errs.NewStorageError("mark ticket paid", errors.New("connection refused"))
}

func (failingStore) MarkValidated(context.Context, string) (model.Ticket, error) {
	return model.Ticket{}, errs.NewStorageError("mark ticket validated", errors.New("connection refused"))
}
