package handlers

import (
	"net/http"

	"sosol/internal/config"
	"sosol/internal/db"
	"sosol/internal/middleware"
	"sosol/internal/store"
	"sosol/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type Handler struct {
	txRunner       db.TxRunner
	queryDB        store.Getter
	cfg            config.Config
	log            zerolog.Logger
	users          UserStore
	wallets        WalletStore
	linkedAccounts LinkedAccountStore
	transactions   TransactionStore
	campaigns      CampaignStore
	sol            SolStore
	loans          LoanStore
	notifications  NotificationStore
	paymentMethods PaymentMethodStore
	tikane         TiKaneStore
	activities     ActivityStore
	admin          AdminStore
	ledger         LedgerService
	solService     SolService
	loanService    LoanService
	tikaneService  TiKaneService
	hub            *websocket.Hub
}

type Deps struct {
	TxRunner       db.TxRunner
	QueryDB        store.Getter
	Cfg            config.Config
	Log            zerolog.Logger
	Users          UserStore
	Wallets        WalletStore
	LinkedAccounts LinkedAccountStore
	Transactions   TransactionStore
	Campaigns      CampaignStore
	Sol            SolStore
	Loans          LoanStore
	Notifications  NotificationStore
	PaymentMethods PaymentMethodStore
	TiKane         TiKaneStore
	Activities     ActivityStore
	Admin          AdminStore
	Ledger         LedgerService
	SolService     SolService
	LoanService    LoanService
	TiKaneService  TiKaneService
	Hub            *websocket.Hub
}

func New(deps Deps) *Handler {
	return &Handler{
		txRunner:       deps.TxRunner,
		queryDB:        deps.QueryDB,
		cfg:            deps.Cfg,
		log:            deps.Log,
		users:          deps.Users,
		wallets:        deps.Wallets,
		linkedAccounts: deps.LinkedAccounts,
		transactions:   deps.Transactions,
		campaigns:      deps.Campaigns,
		sol:            deps.Sol,
		loans:          deps.Loans,
		notifications:  deps.Notifications,
		paymentMethods: deps.PaymentMethods,
		tikane:         deps.TiKane,
		activities:     deps.Activities,
		admin:          deps.Admin,
		ledger:         deps.Ledger,
		solService:     deps.SolService,
		loanService:    deps.LoanService,
		tikaneService:  deps.TiKaneService,
		hub:            deps.Hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.log))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))

		r.Get("/wallet", h.GetWallet)
		r.Post("/wallet/deposit", h.Deposit)
		r.Post("/wallet/withdraw", h.Withdraw)
		r.Get("/transactions", h.ListTransactions)

		r.Get("/accounts", h.ListLinkedAccounts)
		r.Post("/accounts", h.AddLinkedAccount)
		r.Delete("/accounts/{id}", h.RemoveLinkedAccount)

		r.Post("/campaigns", h.CreateCampaign)
		r.Post("/campaigns/{id}/donate", h.Donate)
		r.Post("/campaigns/{id}/updates", h.PostCampaignUpdate)

		r.Get("/sol/groups", h.ListMySolGroups)
		r.Post("/sol/groups", h.CreateSolGroup)
		r.Get("/sol/groups/{id}", h.SolGroupDetail)
		r.Post("/sol/groups/{id}/join", h.JoinSolGroup)
		r.Post("/sol/groups/{id}/contribute", h.Contribute)
		r.Post("/sol/groups/{id}/contributions/{contributionID}/approve", h.ApproveContribution)
		r.Post("/sol/groups/{id}/payout", h.Payout)

		r.Get("/loans", h.ListOpenLoans)
		r.Get("/loans/mine", h.MyLoans)
		r.Post("/loans", h.RequestLoan)
		r.Post("/loans/{id}/fund", h.FundLoan)
		r.Post("/loans/{id}/repay", h.RepayLoan)

		r.Get("/notifications", h.ListNotifications)
		r.Post("/notifications/{id}/read", h.MarkNotificationRead)
		r.Post("/notifications/read-all", h.MarkAllNotificationsRead)
		r.Delete("/notifications/{id}", h.DeleteNotification)

		r.Get("/payment-methods", h.ListPaymentMethods)
		r.Post("/payment-methods", h.AddPaymentMethod)
		r.Post("/payment-methods/{id}/default", h.SetDefaultPaymentMethod)
		r.Delete("/payment-methods/{id}", h.DeletePaymentMethod)

		r.Get("/tikane", h.ListTiKanePlans)
		r.Post("/tikane", h.CreateTiKanePlan)
		r.Get("/tikane/{id}/schedule", h.TiKaneSchedule)
		r.Post("/tikane/{id}/payments/{day}/pay", h.MarkTiKanePaid)
		r.Post("/tikane/{id}/withdraw", h.WithdrawTiKane)

		r.Get("/activity", h.MyActivity)
	})

	// Campaign browsing is public.
	router.Get("/campaigns", h.ListCampaigns)
	router.Get("/campaigns/{id}", h.CampaignDetail)

	router.Get("/ws/balances", h.WSBalances)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Use(middleware.RequireAdmin(h.admin))
		r.Get("/users", h.AdminListUsers)
		r.Get("/transactions", h.AdminListTransactions)
		r.Get("/activity", h.AdminListActivity)
		r.Get("/reconcile", h.Reconcile)
		r.Post("/campaigns/{id}/activate", h.ActivateCampaign)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
