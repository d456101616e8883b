package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
	"github.com/naai-app/naai/internal/core/route"
	"github.com/naai-app/naai/internal/core/validate"
)

type barberMode int

const (
	barberLoading barberMode = iota
	barberView
	barberShopForm
	barberServiceForm
)

// form is a labelled stack of text inputs with shared focus handling.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(labels []string, placeholders []string) *form {
	f := &form{labels: labels}
	for i := range labels {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 160
		if i == 0 {
			ti.Focus()
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

func (f *form) setFocus(i int) tea.Cmd {
	if i < 0 {
		i = len(f.inputs) - 1
	}
	if i >= len(f.inputs) {
		i = 0
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) value(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

func (f *form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		b.WriteString(labelStyle.Render(f.labels[i]) + " " + in.View() + "\n")
	}
	return b.String()
}

// barberScreen manages the barber's shop: create it when none exists, edit
// its details, and add service offerings. Reachable only through the
// require-session guard plus the barber role check.
type barberScreen struct {
	api     backendAPI
	mode    barberMode
	shop    domain.Shop
	hasShop bool
	form    *form
	svc     *form
	saving  bool
	errMsg  string
	notice  string
}

const (
	shopFieldName = iota
	shopFieldDescription
	shopFieldAddress
	shopFieldCity
	shopFieldState
	shopFieldZip
	shopFieldPhone
	shopFieldEmail
	shopFieldImageURL
	shopFieldLatitude
	shopFieldLongitude
)

func newBarberScreen(api backendAPI) *barberScreen {
	return &barberScreen{api: api, mode: barberLoading}
}

func (s *barberScreen) Init() tea.Cmd {
	api := s.api
	return func() tea.Msg {
		shop, err := api.MyShop(context.Background())
		return myShopLoadedMsg{shop: shop, err: err}
	}
}

func (s *barberScreen) newShopForm() *form {
	f := newForm(
		[]string{"Name*     ", "About     ", "Address*  ", "City*     ", "State     ", "Zip code  ", "Phone     ", "Email     ", "Image URL ", "Latitude  ", "Longitude "},
		[]string{"shop name", "description", "street address", "city", "state", "zip", "phone", "contact email", "https://...", "e.g. 40.71", "e.g. -74.00"},
	)
	if s.hasShop {
		vals := []string{
			s.shop.Name, s.shop.Description, s.shop.Address, s.shop.City, s.shop.State,
			s.shop.ZipCode, s.shop.Phone, s.shop.Email, s.shop.ImageURL,
			floatString(s.shop.Latitude), floatString(s.shop.Longitude),
		}
		for i, v := range vals {
			f.inputs[i].SetValue(v)
		}
	}
	return f
}

func newServiceForm() *form {
	return newForm(
		[]string{"Name*     ", "About     ", "Price*    ", "Minutes*  "},
		[]string{"service name", "description", "e.g. 25.00", "e.g. 30"},
	)
}

func (s *barberScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s.updateKey(msg)

	case myShopLoadedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrShopNotFound) {
				// First visit: go straight to the create form.
				s.hasShop = false
				s.mode = barberShopForm
				s.form = s.newShopForm()
				return s, textinput.Blink
			}
			s.mode = barberView
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.shop = msg.shop
		s.hasShop = true
		s.mode = barberView
		return s, nil

	case shopSavedMsg:
		s.saving = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.shop = msg.shop
		s.hasShop = true
		s.mode = barberView
		s.errMsg = ""
		s.notice = "Shop saved."
		return s, nil

	case serviceAddedMsg:
		s.saving = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.shop = msg.shop
		s.mode = barberView
		s.errMsg = ""
		s.notice = "Service added."
		return s, nil
	}

	if s.mode == barberShopForm && s.form != nil {
		return s, s.form.update(msg)
	}
	if s.mode == barberServiceForm && s.svc != nil {
		return s, s.svc.update(msg)
	}
	return s, nil
}

func (s *barberScreen) updateKey(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch s.mode {
	case barberView:
		switch msg.String() {
		case "e":
			s.mode = barberShopForm
			s.form = s.newShopForm()
			s.notice = ""
			return s, textinput.Blink
		case "a":
			if s.hasShop {
				s.mode = barberServiceForm
				s.svc = newServiceForm()
				s.notice = ""
				return s, textinput.Blink
			}
		case "esc":
			return s, Navigate(route.Dashboard)
		case "q":
			return s, tea.Quit
		}

	case barberShopForm:
		switch msg.String() {
		case "tab", "down":
			return s, s.form.setFocus(s.form.focus + 1)
		case "shift+tab", "up":
			return s, s.form.setFocus(s.form.focus - 1)
		case "enter":
			if s.form.focus < len(s.form.inputs)-1 {
				return s, s.form.setFocus(s.form.focus + 1)
			}
			return s, s.submitShop()
		case "ctrl+s":
			return s, s.submitShop()
		case "esc":
			if s.hasShop {
				s.mode = barberView
				s.errMsg = ""
				return s, nil
			}
			return s, Navigate(route.Dashboard)
		}
		return s, s.form.update(msg)

	case barberServiceForm:
		switch msg.String() {
		case "tab", "down":
			return s, s.svc.setFocus(s.svc.focus + 1)
		case "shift+tab", "up":
			return s, s.svc.setFocus(s.svc.focus - 1)
		case "enter":
			if s.svc.focus < len(s.svc.inputs)-1 {
				return s, s.svc.setFocus(s.svc.focus + 1)
			}
			return s, s.submitService()
		case "ctrl+s":
			return s, s.submitService()
		case "esc":
			s.mode = barberView
			s.errMsg = ""
			return s, nil
		}
		return s, s.svc.update(msg)
	}
	return s, nil
}

func (s *barberScreen) submitShop() tea.Cmd {
	if s.saving {
		return nil
	}
	input := ports.ShopInput{
		Name:        s.form.value(shopFieldName),
		Description: s.form.value(shopFieldDescription),
		Address:     s.form.value(shopFieldAddress),
		City:        s.form.value(shopFieldCity),
		State:       s.form.value(shopFieldState),
		ZipCode:     s.form.value(shopFieldZip),
		Phone:       s.form.value(shopFieldPhone),
		Email:       s.form.value(shopFieldEmail),
		ImageURL:    s.form.value(shopFieldImageURL),
	}
	var err error
	if input.Latitude, err = parseCoord(s.form.value(shopFieldLatitude)); err != nil {
		s.errMsg = "latitude must be a number"
		return nil
	}
	if input.Longitude, err = parseCoord(s.form.value(shopFieldLongitude)); err != nil {
		s.errMsg = "longitude must be a number"
		return nil
	}
	if err := validate.Struct(input); err != nil {
		s.errMsg = err.Error()
		return nil
	}

	s.saving = true
	s.errMsg = ""
	api := s.api
	if s.hasShop {
		shopID := s.shop.ID
		return func() tea.Msg {
			shop, err := api.UpdateShop(context.Background(), shopID, input)
			return shopSavedMsg{shop: shop, err: err}
		}
	}
	return func() tea.Msg {
		shop, err := api.CreateShop(context.Background(), input)
		return shopSavedMsg{shop: shop, err: err}
	}
}

func (s *barberScreen) submitService() tea.Cmd {
	if s.saving {
		return nil
	}
	price, err := strconv.ParseFloat(s.svc.value(2), 64)
	if err != nil {
		s.errMsg = "price must be a number"
		return nil
	}
	minutes, err := strconv.Atoi(s.svc.value(3))
	if err != nil {
		s.errMsg = "minutes must be a whole number"
		return nil
	}
	input := ports.ShopServiceInput{
		Name:        s.svc.value(0),
		Description: s.svc.value(1),
		Price:       price,
		Duration:    minutes,
	}
	if err := validate.Struct(input); err != nil {
		s.errMsg = err.Error()
		return nil
	}

	s.saving = true
	s.errMsg = ""
	api := s.api
	shopID := s.shop.ID
	return func() tea.Msg {
		shop, err := api.AddShopService(context.Background(), shopID, input)
		return serviceAddedMsg{shop: shop, err: err}
	}
}

func (s *barberScreen) View() string {
	v := titleStyle.Render("My Shop") + "\n"
	switch s.mode {
	case barberLoading:
		return v + "Loading shop...\n"

	case barberShopForm:
		action := "Create your shop"
		if s.hasShop {
			action = "Edit shop details"
		}
		v += labelStyle.Render(action) + "\n\n" + s.form.view()
		v += s.status()
		v += helpStyle.Render("ctrl+s save · tab next field · esc cancel")
		return v

	case barberServiceForm:
		v += labelStyle.Render("Add a service") + "\n\n" + s.svc.view()
		v += s.status()
		v += helpStyle.Render("ctrl+s save · tab next field · esc cancel")
		return v
	}

	if !s.hasShop {
		v += "No shop yet.\n"
		v += s.status()
		v += helpStyle.Render("e create shop · esc dashboard · q quit")
		return v
	}

	v += cardStyle.Render(shopDetails(s.shop)) + "\n"
	if len(s.shop.Services) == 0 {
		v += labelStyle.Render("No services listed yet.") + "\n"
	} else {
		for _, svc := range s.shop.Services {
			v += fmt.Sprintf("  %s — $%.2f (%d min)\n", svc.Name, svc.Price, svc.Duration)
		}
	}
	v += s.status()
	v += helpStyle.Render("e edit shop · a add service · esc dashboard · q quit")
	return v
}

func (s *barberScreen) status() string {
	out := ""
	if s.saving {
		out += labelStyle.Render("Saving...") + "\n"
	}
	if s.errMsg != "" {
		out += errorStyle.Render(s.errMsg) + "\n"
	}
	if s.notice != "" {
		out += successStyle.Render(s.notice) + "\n"
	}
	return out
}

func shopDetails(shop domain.Shop) string {
	lines := []string{navActiveStyle.Render(shop.Name)}
	if shop.Description != "" {
		lines = append(lines, shop.Description)
	}
	addr := strings.TrimSpace(strings.Join([]string{shop.Address, shop.City, shop.State, shop.ZipCode}, " "))
	if addr != "" {
		lines = append(lines, addr)
	}
	if shop.Phone != "" || shop.Email != "" {
		lines = append(lines, strings.TrimSpace(shop.Phone+" "+shop.Email))
	}
	return strings.Join(lines, "\n")
}

func parseCoord(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func floatString(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
