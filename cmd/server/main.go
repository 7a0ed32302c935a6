package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sosol/internal/config"
	"sosol/internal/db"
	"sosol/internal/handlers"
	"sosol/internal/logging"
	"sosol/internal/services"
	"sosol/internal/store"
	"sosol/internal/websocket"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.AppEnv)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	users := store.NewUserStore(database)
	wallets := store.NewWalletStore(database)
	linkedAccounts := store.NewLinkedAccountStore(database)
	transactions := store.NewTransactionStore(database)
	campaigns := store.NewCampaignStore(database)
	sol := store.NewSolStore(database)
	loans := store.NewLoanStore(database)
	notifications := store.NewNotificationStore(database)
	paymentMethods := store.NewPaymentMethodStore(database)
	tikane := store.NewTiKaneStore(database)
	activities := store.NewActivityStore(database)
	admin := store.NewAdminStore(database)

	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	effects := services.NewSideEffects(log, database, activities, notifications, hub)
	ledger := services.NewLedgerService(txRunner, wallets, transactions, paymentMethods, campaigns, effects)
	solService := services.NewSolService(txRunner, ledger, sol, effects)
	loanService := services.NewLoanService(txRunner, ledger, loans, effects)
	tikaneService := services.NewTiKaneService(txRunner, ledger, tikane, effects)

	handler := handlers.New(handlers.Deps{
		TxRunner:       txRunner,
		QueryDB:        database,
		Cfg:            cfg,
		Log:            log,
		Users:          users,
		Wallets:        wallets,
		LinkedAccounts: linkedAccounts,
		Transactions:   transactions,
		Campaigns:      campaigns,
		Sol:            sol,
		Loans:          loans,
		Notifications:  notifications,
		PaymentMethods: paymentMethods,
		TiKane:         tikane,
		Activities:     activities,
		Admin:          admin,
		Ledger:         ledger,
		SolService:     solService,
		LoanService:    loanService,
		TiKaneService:  tikaneService,
		Hub:            hub,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("sosol API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("shutdown error")
	}
}
