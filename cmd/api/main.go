package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	_ "quickbite/docs"
	"quickbite/pkg/config"
	"quickbite/pkg/events"
	"quickbite/pkg/events/rabbitmq"
	"quickbite/pkg/feedback"
	"quickbite/pkg/logger"
	"quickbite/pkg/menu"
	"quickbite/pkg/order"
	"quickbite/pkg/order/memory"
	pg "quickbite/pkg/order/postgres"
	"quickbite/pkg/otel"
)

var (
	redisClient *redis.Client
	catalog     *menu.Catalog
	queue       *order.Queue
	coordinator *order.Coordinator
	archive     order.Archive
	ledger      *feedback.Ledger
	log         *logger.Logger
	tracer      trace.Tracer
)

// @title QuickBite API
// @version 1.0
// @description API for taking food orders, wait estimates and feedback
// @host localhost:8443
// @BasePath /
func main() {
	ctx := context.Background()
	log = logger.New(os.Stdout, logger.LevelInfo, "quickbite", otel.GetTraceID)

	cfg, err := config.Read(".")
	if err != nil {
		log.Error(ctx, "read config", "error", err)
		os.Exit(1)
	}

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "quickbite", Host: cfg.OtelHost, Probability: 1.0})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		return
	}
	defer shutdown(ctx)
	tracer = tp.Tracer("quickbite")

	catalog = menu.Default()
	if len(cfg.Menu) > 0 {
		c, err := menu.New(cfg.Menu)
		if err != nil {
			log.Error(ctx, "build menu", "error", err)
			os.Exit(1)
		}
		catalog = c
	}

	archive = memory.New()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error(ctx, "db connect", "error", err)
			os.Exit(1)
		}
		if _, err := db.Exec("CREATE TABLE IF NOT EXISTS order_records (order_id INT, customer TEXT, prep_minutes INT, status TEXT, recorded_at TIMESTAMPTZ)"); err != nil {
			log.Error(ctx, "create table", "error", err)
			os.Exit(1)
		}
		archive = pg.New(db)
	} else {
		log.Info(ctx, "no database configured, archiving in memory")
	}

	var pub events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		conn, ch, err := rabbitmq.SetupConn(cfg.AMQPURL)
		if err != nil {
			log.Error(ctx, "rabbitmq connect", "error", err)
			os.Exit(1)
		}
		defer conn.Close()
		defer ch.Close()
		pub = rabbitmq.NewPublisher(ch)
	}

	redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	queue = order.NewQueue()
	gate := order.NewGate(cfg.CancelWindowMinutes, archive)
	coordinator = order.NewCoordinator(catalog, queue, gate, archive, pub, log)
	ledger = feedback.NewLedger()

	r := mux.NewRouter()
	r.Use(traceMiddleware)
	r.HandleFunc("/login", loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/menu", getMenuHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/orders").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("", submitOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("", listOrdersHandler).Methods(http.MethodGet)
	api.HandleFunc("/{id}/served", serveOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/{id}", removeOrderHandler).Methods(http.MethodDelete)

	fb := r.PathPrefix("/feedback").Subrouter()
	fb.Use(authMiddleware)
	fb.HandleFunc("", submitFeedbackHandler).Methods(http.MethodPost)
	fb.HandleFunc("", listFeedbackHandler).Methods(http.MethodGet)

	cn := r.PathPrefix("/cancellations").Subrouter()
	cn.Use(authMiddleware)
	cn.HandleFunc("", listCancellationsHandler).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	log.Info(ctx, "listening", "addr", cfg.Addr)
	if err := http.ListenAndServeTLS(cfg.Addr, cfg.CertFile, cfg.KeyFile, r); err != nil {
		log.Error(ctx, "server closed", "error", err)
	}
}

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// orderRequest is a submission: customer, 1-based menu positions, and the
// synchronous cancellation decision ("commit" when omitted).
type orderRequest struct {
	Customer string `json:"customer"`
	DishIDs  []int  `json:"dish_ids"`
	Decision string `json:"decision,omitempty"`
}

// orderResponse mirrors the receipt of a submission.
type orderResponse struct {
	ID            int          `json:"id"`
	Customer      string       `json:"customer"`
	Items         []string     `json:"items"`
	PrepTime      int          `json:"prepTime"`
	QueueTime     int          `json:"queueTime"`
	TotalWaitTime int          `json:"totalWaitTime"`
	CancelWindow  int          `json:"cancelWindow"`
	Status        order.Status `json:"status"`
}

// feedbackRequest is a free-text comment for a customer.
type feedbackRequest struct {
	Customer string `json:"customer"`
	Comment  string `json:"comment"`
}

// loginHandler handles user login and session creation.
// @Summary Login
// @Description Authenticates user and sets session cookie
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Router /login [post]
func loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		respondError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	sid := uuid.NewString()
	if err := redisClient.Set(ctx, "session:"+sid, req.Username, time.Hour).Err(); err != nil {
		respondError(w, http.StatusInternalServerError, "session error")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: sid, Path: "/", Expires: time.Now().Add(time.Hour), HttpOnly: true})
	w.WriteHeader(http.StatusOK)
}

// authMiddleware ensures a valid session exists.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		user, err := redisClient.Get(r.Context(), "session:"+c.Value).Result()
		if err != nil || user == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), "user", user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getMenuHandler returns the menu in catalog order.
// @Summary Get menu
// @Produce json
// @Success 200 {array} menu.Item
// @Router /menu [get]
func getMenuHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "getMenuHandler")
	defer span.End()

	respondJSON(w, http.StatusOK, catalog.ItemsInOrder())
}

// submitOrderHandler prices a selection and commits or discards it.
// @Summary Submit order
// @Accept json
// @Produce json
// @Param order body orderRequest true "Order"
// @Success 201 {object} orderResponse
// @Security ApiKeyAuth
// @Router /orders [post]
func submitOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "submitOrderHandler")
	defer span.End()

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON or data format.")
		return
	}
	if req.Customer == "" {
		respondError(w, http.StatusBadRequest, "Customer name is required.")
		return
	}

	var decide order.DecideFunc
	switch req.Decision {
	case "", string(order.DecisionCommit):
	case string(order.DecisionDiscard):
		decide = func(order.Quote) order.Decision { return order.DecisionDiscard }
	default:
		respondError(w, http.StatusBadRequest, "Decision must be commit or discard.")
		return
	}

	rcpt, err := coordinator.Submit(ctx, req.Customer, req.DishIDs, decide)
	if err != nil {
		if errors.Is(err, order.ErrInvalidSelection) {
			respondError(w, http.StatusBadRequest, "No valid items selected.")
			return
		}
		log.Error(ctx, "submit order", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, orderResponse{
		ID:            rcpt.Order.ID,
		Customer:      rcpt.Order.Customer,
		Items:         rcpt.Order.Items,
		PrepTime:      rcpt.Order.PrepMinutes,
		QueueTime:     rcpt.QueueWaitMinutes,
		TotalWaitTime: rcpt.TotalWaitMinutes,
		CancelWindow:  rcpt.CancelWindowMinutes,
		Status:        rcpt.Order.Status,
	})
}

// listOrdersHandler returns a snapshot of the pending queue.
// @Summary List pending orders
// @Produce json
// @Success 200 {array} order.Order
// @Security ApiKeyAuth
// @Router /orders [get]
func listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	respondJSON(w, http.StatusOK, queue.Snapshot())
}

// serveOrderHandler acknowledges kitchen-side completion of an order.
// @Summary Mark order served
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} order.Record
// @Security ApiKeyAuth
// @Router /orders/{id}/served [post]
func serveOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "serveOrderHandler")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order id.")
		return
	}
	rec, err := coordinator.MarkServed(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found.")
			return
		}
		log.Error(ctx, "mark served", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// removeOrderHandler is the operator correction: drop an order from the queue.
// @Summary Remove order
// @Param id path int true "Order ID"
// @Success 204
// @Security ApiKeyAuth
// @Router /orders/{id} [delete]
func removeOrderHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "removeOrderHandler")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order id.")
		return
	}
	if _, ok := queue.RemoveIfPresent(id); !ok {
		respondError(w, http.StatusNotFound, "Order not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// submitFeedbackHandler appends a comment to the customer's feedback log.
// @Summary Submit feedback
// @Accept json
// @Produce json
// @Param feedback body feedbackRequest true "Feedback"
// @Success 200
// @Security ApiKeyAuth
// @Router /feedback [post]
func submitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "submitFeedbackHandler")
	defer span.End()

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Customer == "" || req.Comment == "" {
		respondError(w, http.StatusBadRequest, "Invalid feedback data.")
		return
	}
	ledger.Append(req.Customer, req.Comment)
	respondJSON(w, http.StatusOK, map[string]string{"status": "Feedback received."})
}

// listFeedbackHandler returns every customer's comments.
// @Summary List feedback
// @Produce json
// @Success 200 {object} map[string][]string
// @Security ApiKeyAuth
// @Router /feedback [get]
func listFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "listFeedbackHandler")
	defer span.End()

	respondJSON(w, http.StatusOK, ledger.All())
}

// listCancellationsHandler returns the archived cancellation records.
// @Summary List cancellations
// @Produce json
// @Success 200 {array} order.Record
// @Security ApiKeyAuth
// @Router /cancellations [get]
func listCancellationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listCancellationsHandler")
	defer span.End()

	recs, err := archive.List(ctx, order.StatusCancelled)
	if err != nil {
		log.Error(ctx, "list cancellations", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
