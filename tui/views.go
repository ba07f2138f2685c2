package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gildedspoon/tableside/client"
)

// View renders the active screen under a shared header and status bar.
func (m Model) View() string {
	var body string
	switch m.screen {
	case ScreenMenu:
		body = m.viewMenu()
	case ScreenCart:
		body = m.viewCart()
	case ScreenOrders:
		body = m.viewOrders()
	case ScreenProfile:
		body = m.viewProfile()
	case ScreenAdmin:
		body = m.viewAdmin()
	case ScreenLogin:
		body = m.viewLogin()
	}

	return strings.Join([]string{
		m.viewHeader(),
		body,
		m.viewStatusBar(),
	}, "\n")
}

func (m Model) viewHeader() string {
	title := lipgloss.NewStyle().
		Foreground(m.theme.TitleForeground).
		Bold(true).
		Render("The Gilded Spoon")

	who := "not signed in"
	if m.session.Loading {
		who = m.spinner.View() + " checking session"
	} else if m.session.Identity != nil {
		who = m.session.Identity.Username
		if m.session.Identity.Role.IsAdmin() {
			who += " (admin)"
		}
	} else if m.session.IsAuthenticated() {
		who = "signed in"
	}

	whoStyled := lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(who)
	return title + "  " + whoStyled
}

func (m Model) viewStatusBar() string {
	if m.notice != "" {
		color := m.theme.NoticeForeground
		if m.noticeErr {
			color = m.theme.ErrorForeground
		}
		return lipgloss.NewStyle().Foreground(color).Render(m.notice)
	}

	help := "1 menu · 2 cart · 3 orders · 4 profile · 5 admin · r refresh · L sign out · q quit"
	return lipgloss.NewStyle().Foreground(m.theme.HelpText).Render(help)
}

func (m Model) viewMenu() string {
	if m.loading {
		return m.spinner.View() + " loading menu"
	}
	if len(m.menu) == 0 {
		return m.faint("the kitchen has nothing on the menu yet")
	}

	var b strings.Builder
	for i, item := range m.menu {
		line := fmt.Sprintf("%-30s ₹%8.2f  %s", item.Name, item.Price, item.Description)
		b.WriteString(m.listRow(line, i == m.cursor))
		b.WriteByte('\n')
	}
	b.WriteString(m.faint("a: add selection to cart"))
	return b.String()
}

func (m Model) viewCart() string {
	if m.loading {
		return m.spinner.View() + " loading cart"
	}
	if len(m.cart) == 0 {
		return m.faint("your cart is empty")
	}

	var b strings.Builder
	for i, line := range m.cart {
		row := fmt.Sprintf("%dx %-28s ₹%8.2f", line.Quantity, line.Name, line.Total())
		b.WriteString(m.listRow(row, i == m.cursor))
		b.WriteByte('\n')
	}

	summary := client.Summarize(m.cart)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  subtotal   ₹%8.2f\n", summary.Subtotal))
	b.WriteString(fmt.Sprintf("  delivery   ₹%8.2f\n", summary.DeliveryFee))
	b.WriteString(fmt.Sprintf("  tax (5%%)   ₹%8.2f\n", summary.Tax))
	total := lipgloss.NewStyle().Bold(true).
		Render(fmt.Sprintf("  total      ₹%8.2f", summary.GrandTotal))
	b.WriteString(total + "\n")
	b.WriteString(m.faint("x: remove · c: checkout"))
	return b.String()
}

func (m Model) viewOrders() string {
	if m.loading {
		return m.spinner.View() + " loading orders"
	}
	if len(m.orders) == 0 {
		return m.faint("no orders yet")
	}

	var b strings.Builder
	for _, order := range m.orders {
		status := lipgloss.NewStyle().
			Foreground(m.theme.StatusColor(order.Status)).
			Render(order.Status)
		b.WriteString(fmt.Sprintf("#%d  %s  ₹%.2f\n", order.ID, status, order.TotalAmount))
		for _, line := range order.Lines {
			b.WriteString(m.faint(fmt.Sprintf("    %dx %s", line.Quantity, line.Name)))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) viewProfile() string {
	if m.loading {
		return m.spinner.View() + " loading profile"
	}
	if !m.hasProfile {
		return m.faint("no saved details yet")
	}

	var b strings.Builder
	b.WriteString("name:    " + m.profile.Name + "\n")
	b.WriteString("email:   " + m.profile.Email + "\n")
	b.WriteString("phone:   " + m.profile.Phone + "\n")
	b.WriteString(fmt.Sprintf("address: %s, %s %s\n",
		m.profile.Address.Street, m.profile.Address.City, m.profile.Address.Pincode))
	return b.String()
}

func (m Model) viewAdmin() string {
	if m.loading {
		return m.spinner.View() + " loading all orders"
	}
	if len(m.allOrders) == 0 {
		return m.faint("no orders in the system")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("all orders") + "\n")
	for _, order := range m.allOrders {
		status := lipgloss.NewStyle().
			Foreground(m.theme.StatusColor(order.Status)).
			Render(order.Status)
		b.WriteString(fmt.Sprintf("#%d  user %d  %s  ₹%.2f\n",
			order.ID, order.UserID, status, order.TotalAmount))
	}
	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("sign in") + "\n\n")
	b.WriteString(m.loginInputs[0].View() + "\n")
	b.WriteString(m.loginInputs[1].View() + "\n\n")
	if m.loginBusy {
		b.WriteString(m.spinner.View() + " signing in\n")
	}
	b.WriteString(m.faint("enter: submit · esc: back to menu"))
	return b.String()
}

func (m Model) listRow(text string, selected bool) string {
	if !selected {
		return "  " + lipgloss.NewStyle().Foreground(m.theme.NormalText).Render(text)
	}
	return "> " + lipgloss.NewStyle().
		Foreground(m.theme.SelectedForeground).
		Background(m.theme.SelectedBackground).
		Render(text)
}

func (m Model) faint(text string) string {
	return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(text)
}
