package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/minuteserv/minuteserv-go/internal/api"
	"github.com/minuteserv/minuteserv-go/internal/cart"
	"github.com/minuteserv/minuteserv-go/internal/lifecycle"
	"github.com/minuteserv/minuteserv-go/internal/models"
	"github.com/minuteserv/minuteserv-go/internal/otp"
	"github.com/minuteserv/minuteserv-go/internal/session"
)

type app struct {
	client     *api.Client
	controller *lifecycle.Controller
	sessions   *session.Store
	cart       *cart.Cart
	cartPath   string
	catalog    []models.Service
	in         *bufio.Scanner
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment")
	}

	baseURL := os.Getenv("MINUTESERV_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client, err := api.NewClient(baseURL, api.AudienceCustomer)
	if err != nil {
		log.Fatalf("Failed to build API client: %v", err)
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	sessions := session.NewStore(client, filepath.Join(cacheDir, "minuteserv", "customer-session.json"))
	sessions.OnLogout(func() {
		fmt.Println("Session ended. Log in again with 'login'.")
	})

	cartPath := filepath.Join(cacheDir, "minuteserv", "cart.json")
	a := &app{
		client:     client,
		controller: lifecycle.NewController(client),
		sessions:   sessions,
		cart:       cart.Load(cartPath),
		cartPath:   cartPath,
		in:         bufio.NewScanner(os.Stdin),
	}

	ctx := context.Background()
	if user, err := sessions.Load(ctx); err == nil {
		fmt.Printf("Welcome back, %s\n", user.PhoneNumber)
	} else {
		fmt.Println("Not logged in. Use 'login' to start.")
	}

	a.run(ctx)
}

func (a *app) run(ctx context.Context) {
	fmt.Println("Minuteserv storefront. Type 'help' for commands.")
	for {
		fmt.Print("> ")
		if !a.in.Scan() {
			return
		}
		fields := strings.Fields(a.in.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "help":
			a.help()
		case "login":
			a.login(ctx)
		case "logout":
			a.sessions.Logout(ctx)
		case "catalog":
			a.showCatalog(ctx)
		case "add":
			a.add(ctx, fields[1:])
		case "qty":
			a.qty(fields[1:])
		case "cart":
			a.showCart()
		case "redeem":
			a.redeem(ctx, fields[1:])
		case "checkout":
			a.checkout(ctx, fields[1:])
		case "bookings":
			a.bookings(ctx, fields[1:])
		case "show":
			a.show(ctx, fields[1:])
		case "cancel":
			a.cancel(ctx, fields[1:])
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command. Type 'help'.")
		}
	}
}

func (a *app) help() {
	fmt.Println(`Commands:
  login                 log in with phone + OTP
  catalog               list services
  add <svc> [qty]       add a service to the cart
  qty <svc> <n>         change a cart line (0 removes)
  cart                  show the cart with totals
  redeem <points>       redeem loyalty points for a discount
  checkout <address...> place the order
  bookings [status]     list your bookings
  show <id>             booking detail
  cancel <id> [reason]  cancel a booking before it starts
  logout, quit`)
}

func (a *app) surface(ctx context.Context, err error) {
	if a.sessions.HandleAuthError(ctx, err) {
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		fmt.Println(apiErr.Message)
		return
	}
	fmt.Println(err)
}

func (a *app) login(ctx context.Context) {
	fmt.Print("Phone number: ")
	if !a.in.Scan() {
		return
	}
	phone := strings.TrimSpace(a.in.Text())

	resp, err := a.client.SendOTP(ctx, phone)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	fmt.Printf("Code sent, valid for %ds. Enter the %d-digit code ('resend' to resend):\n",
		resp.ExpiresIn, models.CustomerLoginOTPDigits)

	resend := otp.StartResendTimer(time.Now())
	input := otp.NewInput(models.CustomerLoginOTPDigits)

	for {
		fmt.Print("code> ")
		if !a.in.Scan() {
			return
		}
		line := strings.TrimSpace(a.in.Text())
		if line == "resend" {
			if !resend.CanResend(time.Now()) {
				fmt.Printf("Resend available in %ds\n", resend.Remaining(time.Now()))
				continue
			}
			if _, err := a.client.SendOTP(ctx, phone); err != nil {
				a.surface(ctx, err)
				continue
			}
			resend.Reset(time.Now())
			input.Clear()
			fmt.Println("New code sent.")
			continue
		}

		code, ready := feed(input, line)
		if !ready {
			continue
		}

		verified, err := a.client.VerifyOTP(ctx, phone, code)
		if err != nil {
			_, msg := otp.Classify(err)
			fmt.Println(msg)
			input.Clear()
			continue
		}
		user, err := verified.SessionUser()
		if err != nil {
			fmt.Println("The code you entered is incorrect.")
			input.Clear()
			continue
		}
		a.sessions.Establish(user)
		fmt.Printf("Logged in as %s\n", user.PhoneNumber)
		return
	}
}

func feed(input *otp.Input, line string) (string, bool) {
	if code, ready := input.Paste(line); ready {
		return code, true
	}
	var code string
	var ready bool
	for _, ch := range line {
		c, r, err := input.Type(ch)
		if err != nil {
			fmt.Println("Only digits are allowed.")
			input.Clear()
			return "", false
		}
		code, ready = c, r
	}
	if !ready && line != "" {
		fmt.Println("Keep typing — the code is incomplete.")
	}
	return code, ready
}

func (a *app) showCatalog(ctx context.Context) {
	services, err := a.client.Services(ctx)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	a.catalog = services
	for _, svc := range services {
		duration := svc.DurationMinutes
		if duration <= 0 {
			duration = models.DefaultServiceDuration
		}
		fmt.Printf("#%d %-28s %7.2f  %dmin  %s\n", svc.ID, svc.Name, svc.Price, duration, svc.Category)
	}
}

func (a *app) findService(id uint) (*models.Service, bool) {
	for i := range a.catalog {
		if a.catalog[i].ID == id {
			return &a.catalog[i], true
		}
	}
	return nil, false
}

func (a *app) add(ctx context.Context, args []string) {
	if len(a.catalog) == 0 {
		a.showCatalog(ctx)
	}
	if len(args) == 0 {
		fmt.Println("Service ID required.")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Println("Invalid service ID.")
		return
	}
	quantity := 1
	if len(args) > 1 {
		if q, err := strconv.Atoi(args[1]); err == nil {
			quantity = q
		}
	}
	svc, ok := a.findService(uint(id))
	if !ok {
		fmt.Println("No such service in the catalog.")
		return
	}
	a.cart.Add(*svc, quantity)
	a.saveCart()
	fmt.Printf("Added %s x%d\n", svc.Name, quantity)
}

func (a *app) qty(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: qty <svc> <n>")
		return
	}
	id, err1 := strconv.ParseUint(args[0], 10, 32)
	n, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("Usage: qty <svc> <n>")
		return
	}
	a.cart.SetQuantity(uint(id), n)
	a.saveCart()
}

func (a *app) saveCart() {
	if err := a.cart.Save(a.cartPath); err != nil {
		log.Printf("failed to save cart: %v", err)
	}
}

func (a *app) showCart() {
	if a.cart.IsEmpty() {
		fmt.Println("Cart is empty.")
		return
	}
	for _, item := range a.cart.Items() {
		fmt.Printf("#%d %-28s x%d  %7.2f\n", item.ServiceID, item.Name, item.Quantity, item.Cost*float64(item.Quantity))
	}
	subtotal := a.cart.Subtotal()
	fmt.Printf("Subtotal:    %.2f\n", subtotal)
	fmt.Printf("Service fee: %.2f\n", cart.ServiceFee(subtotal))
	fmt.Printf("Grand total: %.2f\n", a.cart.GrandTotal())
}

func (a *app) redeem(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: redeem <points>")
		return
	}
	points, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("Usage: redeem <points>")
		return
	}
	resp, err := a.client.RedeemLoyalty(ctx, points)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	fmt.Printf("Redeemed %d points for a %.2f discount (%d left)\n", resp.Redeemed, resp.Discount, resp.Remaining)
}

func (a *app) checkout(ctx context.Context, args []string) {
	if a.cart.IsEmpty() {
		fmt.Println("Cart is empty.")
		return
	}
	address := strings.Join(args, " ")
	if address == "" {
		fmt.Print("Address: ")
		if !a.in.Scan() {
			return
		}
		address = strings.TrimSpace(a.in.Text())
	}
	fmt.Print("Payment method (cod/card): ")
	if !a.in.Scan() {
		return
	}
	payment := strings.TrimSpace(a.in.Text())
	if payment == "" {
		payment = "cod"
	}

	booking, err := a.client.Checkout(ctx, api.CheckoutRequest{
		Items:         a.cart.CheckoutItems(),
		Address:       address,
		PaymentMethod: payment,
	})
	if err != nil {
		a.surface(ctx, err)
		return
	}
	a.cart.Clear()
	a.saveCart()
	// Display figures come from the server's booking, not the local cart.
	fmt.Printf("Order placed: %s, grand total %.2f\n", booking.BookingNumber, booking.GrandTotal)
}

func (a *app) bookings(ctx context.Context, args []string) {
	var status models.BookingStatus
	if len(args) > 0 {
		parsed, err := models.ParseBookingStatus(args[0])
		if err != nil {
			fmt.Println(err)
			return
		}
		status = parsed
	}
	bookings, err := a.client.ListBookings(ctx, status)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	if len(bookings) == 0 {
		fmt.Println("No bookings.")
		return
	}
	for _, b := range bookings {
		fmt.Printf("#%d %s  %-12s %.2f\n", b.ID, b.BookingNumber, b.Status, b.GrandTotal)
	}
}

func (a *app) show(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Booking ID required.")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Println("Invalid booking ID.")
		return
	}
	b, err := a.client.GetBooking(ctx, uint(id))
	if err != nil {
		a.surface(ctx, err)
		return
	}
	fmt.Printf("Booking %s — %s\n", b.BookingNumber, b.Status)
	for _, s := range b.Services {
		fmt.Printf("  - %s x%d  %.2f\n", s.Name, s.Quantity, s.Price)
	}
	fmt.Printf("  Address: %s\n", b.Address)
	fmt.Printf("  Grand total: %.2f (%s)\n", b.GrandTotal, b.PaymentMethod)
}

func (a *app) cancel(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Booking ID required.")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Println("Invalid booking ID.")
		return
	}
	reason := strings.Join(args[1:], " ")
	b, err := a.client.GetBooking(ctx, uint(id))
	if err != nil {
		a.surface(ctx, err)
		return
	}
	if err := a.controller.Cancel(ctx, b, reason); err != nil {
		a.surface(ctx, err)
		return
	}
	fmt.Println("Booking cancelled.")
}
