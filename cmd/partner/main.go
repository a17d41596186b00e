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
	"github.com/minuteserv/minuteserv-go/internal/gesture"
	"github.com/minuteserv/minuteserv-go/internal/lifecycle"
	"github.com/minuteserv/minuteserv-go/internal/models"
	"github.com/minuteserv/minuteserv-go/internal/otp"
	"github.com/minuteserv/minuteserv-go/internal/session"
	"github.com/minuteserv/minuteserv-go/internal/timer"
)

// sliderTrack is the width of the textual swipe track: one '>' per cell.
const sliderTrack = 20

type app struct {
	client     *api.Client
	controller *lifecycle.Controller
	sessions   *session.Store
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

	client, err := api.NewClient(baseURL, api.AudiencePartner)
	if err != nil {
		log.Fatalf("Failed to build API client: %v", err)
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	sessions := session.NewStore(client, filepath.Join(cacheDir, "minuteserv", "partner-session.json"))
	sessions.OnLogout(func() {
		fmt.Println("Session ended. Log in again with 'login'.")
	})

	a := &app{
		client:     client,
		controller: lifecycle.NewController(client),
		sessions:   sessions,
		in:         bufio.NewScanner(os.Stdin),
	}

	ctx := context.Background()
	if user, err := sessions.Load(ctx); err == nil {
		fmt.Printf("Welcome back, %s\n", displayName(user))
	} else {
		fmt.Println("Not logged in. Use 'login' to start.")
	}

	a.run(ctx)
}

func displayName(user *models.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.PhoneNumber
}

func (a *app) run(ctx context.Context) {
	fmt.Println("Minuteserv partner console. Type 'help' for commands.")
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
		case "queue":
			a.queue(ctx, fields[1:])
		case "show":
			a.show(ctx, fields[1:])
		case "accept":
			a.accept(ctx, fields[1:])
		case "reject":
			a.reject(ctx, fields[1:])
		case "start":
			a.start(ctx, fields[1:])
		case "complete":
			a.complete(ctx, fields[1:])
		case "watch":
			a.watch(ctx, fields[1:])
		case "earnings":
			a.earnings(ctx)
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
  queue [status]        list bookings, optionally filtered by status
  show <id>             booking detail
  accept <id>           accept an assigned booking
  reject <id> <reason>  reject an assigned booking
  start <id>            start service (customer OTP required)
  complete <id>         finish service (swipe to confirm)
  watch <id>            live countdown for an in-progress booking
  earnings              payout total across completed bookings
  logout, quit`)
}

// surface prints an API error the way the apps do everywhere: inline, never
// crashing the view. Auth errors additionally end the session once.
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
		resp.ExpiresIn, models.PartnerLoginOTPDigits)

	resend := otp.StartResendTimer(time.Now())
	input := otp.NewInput(models.PartnerLoginOTPDigits)

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
		fmt.Printf("Logged in as %s\n", displayName(user))
		return
	}
}

// feed pushes console input through the fixed-width OTP entry: a full-length
// line behaves like a paste, anything else is typed digit by digit.
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

func parseID(args []string) (uint, bool) {
	if len(args) == 0 {
		fmt.Println("Booking ID required.")
		return 0, false
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Println("Invalid booking ID.")
		return 0, false
	}
	return uint(id), true
}

func (a *app) queue(ctx context.Context, args []string) {
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
		fmt.Printf("#%d %s  %-12s %s  %.2f\n", b.ID, b.BookingNumber, b.Status, b.CustomerName, b.GrandTotal)
	}
}

func (a *app) show(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	b, err := a.client.GetBooking(ctx, id)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	printBooking(b)
}

func printBooking(b *models.Booking) {
	fmt.Printf("Booking %s (#%d) — %s\n", b.BookingNumber, b.ID, b.Status)
	fmt.Printf("  Customer: %s (%s)\n", b.CustomerName, b.CustomerPhone)
	fmt.Printf("  Address:  %s\n", b.Address)
	for _, s := range b.Services {
		d := s.DurationMinutes
		if d <= 0 {
			d = models.DefaultServiceDuration
		}
		fmt.Printf("  - %s x%d  %dmin  %.2f\n", s.Name, s.Quantity, d, s.Price)
	}
	fmt.Printf("  Grand total: %.2f (%s)\n", b.GrandTotal, b.PaymentMethod)
	if b.Status == models.BookingStatusCompleted {
		fmt.Printf("  Your payout: %.2f\n", b.PartnerPayout)
	}
	if b.ServiceStartedAt != nil {
		fmt.Printf("  Started at: %s\n", b.ServiceStartedAt.Format(time.RFC3339))
	}
}

func (a *app) accept(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	b, err := a.client.GetBooking(ctx, id)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	fresh, err := a.controller.Accept(ctx, b)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	fmt.Printf("Accepted %s. Ask the customer for their start code when you arrive.\n", fresh.BookingNumber)
}

func (a *app) reject(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	reason := strings.Join(args[1:], " ")
	b, err := a.client.GetBooking(ctx, id)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	if err := a.controller.Reject(ctx, b, reason); err != nil {
		a.surface(ctx, err)
		return
	}
	fmt.Println("Booking rejected.")
}

func (a *app) start(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	b, err := a.client.GetBooking(ctx, id)
	if err != nil {
		a.surface(ctx, err)
		return
	}

	fmt.Printf("Enter the customer's %d-digit start code:\n", models.ServiceStartOTPDigits)
	input := otp.NewInput(models.ServiceStartOTPDigits)
	for {
		fmt.Print("code> ")
		if !a.in.Scan() {
			return
		}
		code, ready := feed(input, strings.TrimSpace(a.in.Text()))
		if !ready {
			continue
		}

		started, err := a.controller.Start(ctx, b, code)
		if err != nil {
			var desync *lifecycle.StartDesyncError
			if errors.As(err, &desync) {
				fmt.Println("The code verified but starting failed. Ask the customer for a fresh code and try again.")
				return
			}
			_, msg := otp.Classify(err)
			fmt.Println(msg)
			input.Clear()
			continue
		}

		fmt.Printf("Service started on %s.\n", started.BookingNumber)
		if cd, err := timer.ForBooking(started); err == nil {
			fmt.Printf("Time remaining: %s\n", formatRemaining(cd.Remaining(time.Now())))
		}
		return
	}
}

func (a *app) complete(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	b, err := a.client.GetBooking(ctx, id)
	if err != nil {
		a.surface(ctx, err)
		return
	}

	fmt.Printf("Slide to confirm: type '>' characters (track width %d, %d%% needed) and press Enter.\n",
		sliderTrack, int(gesture.CompleteThreshold))
	fmt.Print("slide> ")
	if !a.in.Scan() {
		return
	}
	row := strings.TrimSpace(a.in.Text())

	slider := gesture.NewSlider(sliderTrack)
	slider.Begin(0)
	slider.Move(float64(len(row)))
	if !slider.Release() {
		fmt.Println("Not far enough — slider snapped back.")
		return
	}

	done, err := a.controller.Complete(ctx, b)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	fmt.Printf("Completed %s. Payout: %.2f\n", done.BookingNumber, done.PartnerPayout)
}

func (a *app) watch(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	b, err := a.client.GetBooking(ctx, id)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	cd, err := timer.ForBooking(b)
	if err != nil {
		fmt.Println("Service has not started yet.")
		return
	}

	// Rebuilt from the refetched booking every time; never resumed.
	watchCtx, cancel := context.WithCancel(ctx)
	go func() {
		a.in.Scan()
		cancel()
	}()
	fmt.Println("Press Enter to stop watching.")
	cd.Run(watchCtx, func(remaining time.Duration) {
		fmt.Printf("\r%s remaining   ", formatRemaining(remaining))
		if remaining == 0 {
			fmt.Println("\nTime is up.")
		}
	})
	cancel()
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

func (a *app) earnings(ctx context.Context) {
	bookings, err := a.client.ListBookings(ctx, models.BookingStatusCompleted)
	if err != nil {
		a.surface(ctx, err)
		return
	}
	var total float64
	for _, b := range bookings {
		total += b.PartnerPayout
	}
	fmt.Printf("%d completed booking(s), payout total %.2f\n", len(bookings), total)
}
