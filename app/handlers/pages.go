package handlers

import (
	"net/http"

	"github.com/dmitrymomot/authflow"
	"github.com/dmitrymomot/authflow/app/views"
	"github.com/dmitrymomot/authflow/middlewares"
)

// Pages serves the signed in area and the root redirect.
type Pages struct{}

func NewPages() *Pages {
	return &Pages{}
}

func (h *Pages) Routes(r authflow.Router) {
	r.GET("/", h.root)
	r.GET(middlewares.DefaultLandingPath, h.home, middlewares.RequireAuth(views.LoginPath))
}

func (h *Pages) root(c authflow.Context) error {
	if c.IsAuthenticated() {
		return c.Redirect(http.StatusFound, middlewares.DefaultLandingPath)
	}
	return c.Redirect(http.StatusFound, views.LoginPath)
}

func (h *Pages) home(c authflow.Context) error {
	return c.Render(http.StatusOK, views.HomePage(c.Identity().Username))
}
