package http

import (
	"context"
	"encoding/json"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"ru-ticket/common/constant"
	jetsteamMock "ru-ticket/common/jetstream/mocks"
	"ru-ticket/model"
	"ru-ticket/service"
	"strings"
	"testing"
)

type PaymentHttpTestSuite struct {
	suite.Suite

	Validate  *validator.Validate
	Publisher *jetsteamMock.MockPublisher
	Service   *service.TicketService
	ticketId  string
}

func (s *PaymentHttpTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())

	s.Validate = validator.New()
	s.Publisher = jetsteamMock.NewMockPublisher(ctrl)
	s.Service = newTestService(s.Publisher)

	s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectTicketCreated, gomock.Any()).Return(nil, nil)

	price := model.Money(560)
	id, err := s.Service.CreateTicket(context.Background(), model.CreateTicketRequest{
		Name:     "Ana Souza",
		Category: "estudante",
		Price:    &price,
	})
	s.Require().NoError(err)
	s.ticketId = id

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func TestPaymentHttpTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentHttpTestSuite))
}

func (s *PaymentHttpTestSuite) TestReference() {
	tests := []struct {
		name           string
		reqBody        string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "invalid json",
			reqBody:        `{invalid json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request"}`,
		},
		{
			name:           "validation error - missing ticketId",
			reqBody:        `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Validation failed","data":{"TicketId":"required"}}`,
		},
		{
			name:           "unknown ticket",
			reqBody:        `{"ticketId":"TCK-missing"}`,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Ticket not found"}`,
		},
		{
			name:           "success",
			reqBody:        `{"ticketId":"` + s.ticketId + `"}`,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			paymentHttp := RegisterPaymentHttp(http.NewServeMux(), s.Service, s.Validate)

			req := httptest.NewRequest(http.MethodPost, "/api/payments/reference", strings.NewReader(tc.reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			paymentHttp.reference(w, req)

			s.Equal(tc.expectedStatus, w.Code)

			if tc.expectedBody != "" {
				s.Equal(tc.expectedBody, strings.TrimSpace(w.Body.String()))
				return
			}

			var resp map[string]any
			s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			s.Equal(0.01, resp["amount"])
			s.Equal(5.6, resp["ticketPrice"])
			s.Equal("+5541991159514", resp["receiverKey"])
			s.Contains(resp["payload"], "br.gov.bcb.pix")
			s.NotEmpty(resp["transactionId"])
		})
	}
}

func (s *PaymentHttpTestSuite) TestConfirmAndStatus() {
	mux := http.NewServeMux()
	RegisterPaymentHttp(mux, s.Service, s.Validate)

	status := func(id string) string {
		req := httptest.NewRequest(http.MethodGet, "/api/payments/status/"+id, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		s.Equal(http.StatusOK, w.Code)
		return strings.TrimSpace(w.Body.String())
	}

	confirm := func(body string) (int, string) {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/confirm", strings.NewReader(body))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w.Code, strings.TrimSpace(w.Body.String())
	}

	s.Equal(`{"paid":false}`, status(s.ticketId))
	s.Equal(`{"paid":false}`, status("TCK-missing"))

	code, body := confirm(`{"ticketId":"TCK-missing"}`)
	s.Equal(http.StatusNotFound, code)
	s.Equal(`{"error":"Ticket not found"}`, body)

	code, body = confirm(`{}`)
	s.Equal(http.StatusBadRequest, code)
	s.Equal(`{"error":"Validation failed","data":{"TicketId":"required"}}`, body)

	s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectTicketPaid, gomock.Any()).Return(nil, nil).Times(1)

	code, body = confirm(`{"ticketId":"` + s.ticketId + `"}`)
	s.Equal(http.StatusOK, code)
	s.Equal(`{"ok":true}`, body)

	code, _ = confirm(`{"ticketId":"` + s.ticketId + `"}`)
	s.Equal(http.StatusOK, code)

	s.Equal(`{"paid":true}`, status(s.ticketId))
}
