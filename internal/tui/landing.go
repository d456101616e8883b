package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/route"
)

const maxShopsShown = 8

type landingScreen struct {
	api     backendAPI
	search  textinput.Model
	city    textinput.Model
	spin    spinner.Model
	shops   []domain.Shop
	loading bool
	editing bool
	focus   int // 0 search, 1 city
	errMsg  string
}

func newLandingScreen(api backendAPI) *landingScreen {
	search := textinput.New()
	search.Placeholder = "search by name, location..."
	search.CharLimit = 80

	city := textinput.New()
	city.Placeholder = "city"
	city.CharLimit = 40

	return &landingScreen{
		api:     api,
		search:  search,
		city:    city,
		spin:    spinner.New(),
		loading: true,
	}
}

func (s *landingScreen) Init() tea.Cmd {
	return tea.Batch(s.fetch(), s.spin.Tick)
}

func (s *landingScreen) fetch() tea.Cmd {
	api := s.api
	search, city := s.search.Value(), s.city.Value()
	s.loading = true
	return func() tea.Msg {
		shops, err := api.ListShops(context.Background(), search, city)
		return shopsLoadedMsg{shops: shops, err: err}
	}
}

func (s *landingScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.editing {
			switch msg.String() {
			case "esc":
				s.blur()
				return s, nil
			case "tab":
				s.swapFocus()
				return s, nil
			case "enter":
				s.blur()
				return s, s.fetch()
			}
			var cmd tea.Cmd
			if s.focus == 0 {
				s.search, cmd = s.search.Update(msg)
			} else {
				s.city, cmd = s.city.Update(msg)
			}
			return s, cmd
		}

		switch msg.String() {
		case "/":
			s.editing = true
			s.focus = 0
			return s, s.search.Focus()
		case "c":
			s.editing = true
			s.focus = 1
			return s, s.city.Focus()
		case "r":
			return s, s.fetch()
		case "l":
			return s, Navigate(route.Login)
		case "s":
			return s, Navigate(route.Signup)
		case "d":
			return s, Navigate(route.Dashboard)
		case "b":
			return s, Navigate(route.BarberDashboard)
		case "q":
			return s, tea.Quit
		}

	case shopsLoadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.shops = msg.shops
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *landingScreen) swapFocus() {
	if s.focus == 0 {
		s.search.Blur()
		s.focus = 1
		s.city.Focus()
	} else {
		s.city.Blur()
		s.focus = 0
		s.search.Focus()
	}
}

func (s *landingScreen) blur() {
	s.editing = false
	s.search.Blur()
	s.city.Blur()
}

func (s *landingScreen) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Find Your Perfect Barber & Salon") + "\n")
	b.WriteString(s.search.View() + "  " + s.city.View() + "\n\n")

	switch {
	case s.loading:
		b.WriteString(s.spin.View() + " loading shops...\n")
	case s.errMsg != "":
		b.WriteString(errorStyle.Render(s.errMsg) + "\n")
	case len(s.shops) == 0:
		b.WriteString("No shops found. Be the first to list your shop!\n")
	default:
		for i, shop := range s.shops {
			if i == maxShopsShown {
				b.WriteString(labelStyle.Render(fmt.Sprintf("... and %d more", len(s.shops)-maxShopsShown)) + "\n")
				break
			}
			b.WriteString(cardStyle.Render(shopCard(shop)) + "\n")
		}
	}

	b.WriteString(helpStyle.Render("/ search · c city · enter apply · r refresh · l login · s sign up · d dashboard · q quit"))
	return b.String()
}

func shopCard(shop domain.Shop) string {
	head := navActiveStyle.Render(shop.Name)
	if shop.City != "" {
		head += labelStyle.Render("  " + shop.City)
	}
	lines := []string{head}
	if shop.Description != "" {
		lines = append(lines, shop.Description)
	}
	if n := len(shop.Services); n > 0 {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%d services from $%.2f", n, minPrice(shop.Services))))
	}
	return strings.Join(lines, "\n")
}

func minPrice(services []domain.ShopService) float64 {
	min := services[0].Price
	for _, svc := range services[1:] {
		if svc.Price < min {
			min = svc.Price
		}
	}
	return min
}
