package main

import (
	"net/http"

	"github.com/famquest/backend/pkg/router"
	"github.com/famquest/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	addr := xcontext.Configs(s.ctx).ApiServer.Address()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on %s", addr)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Use(router.Authenticate())

	// Ledger API
	router.POST(s.router, "/adjustPoints", s.ledgerDomain.Adjust)
	router.GET(s.router, "/getBalance", s.ledgerDomain.GetBalance)
	router.GET(s.router, "/getPointHistory", s.ledgerDomain.GetHistory)

	// Task API
	router.POST(s.router, "/submitTask", s.taskDomain.Submit)
	router.POST(s.router, "/reviewTask", s.taskDomain.Review)
	router.GET(s.router, "/getTask", s.taskDomain.Get)
	router.GET(s.router, "/getPendingTasks", s.taskDomain.GetPendingList)
	router.GET(s.router, "/getMyTasks", s.taskDomain.GetMyList)
	router.GET(s.router, "/getTaskCatalog", s.taskDomain.GetCatalog)

	// Drawing API
	router.POST(s.router, "/createDrawing", s.drawingDomain.Create)
	router.POST(s.router, "/joinDrawing", s.drawingDomain.Join)
	router.POST(s.router, "/drawWinners", s.drawingDomain.Draw)
	router.GET(s.router, "/getDrawing", s.drawingDomain.Get)
	router.GET(s.router, "/getActiveDrawings", s.drawingDomain.GetActiveList)
	router.GET(s.router, "/getFinishedDrawings", s.drawingDomain.GetFinishedList)
	router.GET(s.router, "/getMyWins", s.drawingDomain.GetMyWins)

	// User API
	router.GET(s.router, "/getUser", s.userDomain.Get)
	router.GET(s.router, "/getUserStats", s.userDomain.GetStats)
	router.POST(s.router, "/setName", s.userDomain.SetName)
	router.POST(s.router, "/setBadge", s.userDomain.SetBadge)
	router.POST(s.router, "/setEmoji", s.userDomain.SetEmoji)
	router.POST(s.router, "/banUser", s.userDomain.Ban)
	router.GET(s.router, "/searchUsers", s.userDomain.Search)
	router.GET(s.router, "/getTopUsers", s.userDomain.GetTop)
}
