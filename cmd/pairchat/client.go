package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"pairchat/app"
	"pairchat/contract"
	"pairchat/domain"
	"pairchat/services"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// terminalClient plays the part of the mobile UI: it owns the navigation
// state and renders one screen per named route. It is the process's
// INavigator, so the login flow's routing decisions drive it directly.
type terminalClient struct {
	log       *slog.Logger
	reader    *bufio.Reader
	session   services.ISessionService
	directory services.IDirectoryService
	chat      services.IChatService
	flow      *app.LoginFlow

	route  contract.Route
	params map[string]string

	// peer selected on the directory screen
	peerID   string
	peerName string
}

func newTerminalClient(log *slog.Logger, session services.ISessionService,
	directory services.IDirectoryService, chat services.IChatService) *terminalClient {
	c := &terminalClient{
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		session:   session,
		directory: directory,
		chat:      chat,
		route:     contract.RouteLogin,
	}
	c.flow = app.NewLoginFlow(log, session, directory, c)
	return c
}

// Navigate records the requested transition; the Run loop switches screens.
func (c *terminalClient) Navigate(route contract.Route, params map[string]string) {
	c.route = route
	c.params = params
}

func (c *terminalClient) Run(ctx context.Context) error {
	color.Cyan.Println("=== pairchat ===")
	for ctx.Err() == nil {
		var err error
		switch c.route {
		case contract.RouteLogin:
			err = c.loginScreen(ctx)
		case contract.RouteDetail:
			err = c.detailScreen()
		case contract.RouteDirectory:
			err = c.directoryScreen()
		case contract.RouteChat:
			err = c.chatScreen(ctx)
		default:
			return fmt.Errorf("unknown route %q", c.route)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *terminalClient) loginScreen(ctx context.Context) error {
	number, err := c.prompt("Enter your 10-digit phone number: ")
	if err != nil {
		return err
	}
	if err := c.flow.SubmitPhoneNumber(ctx, number); err != nil {
		color.Red.Println(err)
		return nil
	}

	for {
		code, err := c.prompt("Enter the 6-digit code: ")
		if err != nil {
			return err
		}
		if _, err := c.flow.SubmitCode(ctx, code); err != nil {
			color.Red.Println(err)
			continue
		}
		return nil
	}
}

func (c *terminalClient) detailScreen() error {
	color.Cyan.Println("-- Enter your details --")
	name, err := c.prompt("Name: ")
	if err != nil {
		return err
	}
	dob, err := c.prompt("Date of birth (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	genderInput, err := c.prompt("Gender (Male/Female/Other): ")
	if err != nil {
		return err
	}
	gender, err := domain.ParseGender(genderInput)
	if err != nil {
		color.Red.Println(err)
		return nil
	}

	uid := c.params["uid"]
	if err := c.flow.CompleteProfile(uid, name, dob, gender); err != nil {
		color.Red.Println(err)
	}
	return nil
}

func (c *terminalClient) directoryScreen() error {
	users, err := c.directory.ListUsers()
	if err != nil {
		color.Red.Println(err)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Name", "Gender", "Born"})
	for i, u := range users {
		table.Append([]string{strconv.Itoa(i + 1), u.Name, string(u.Gender), u.DateOfBirth})
	}
	table.Render()

	input, err := c.prompt("Pick a user number to chat, or /logout: ")
	if err != nil {
		return err
	}
	if input == "/logout" {
		c.flow.Logout()
		return nil
	}

	index, err := strconv.Atoi(input)
	if err != nil || index < 1 || index > len(users) {
		color.Red.Println("Invalid selection")
		return nil
	}

	peer := users[index-1]
	c.peerID, c.peerName = peer.ID, peer.Name
	c.Navigate(contract.RouteChat, map[string]string{"peer": peer.ID, "name": peer.Name})
	return nil
}

func (c *terminalClient) chatScreen(ctx context.Context) error {
	selfID, ok := c.session.CurrentIdentity()
	if !ok {
		c.Navigate(contract.RouteLogin, nil)
		return nil
	}

	vm := app.NewChatViewModel(c.log, c.chat, selfID, c.peerID)
	defer vm.Close()

	printed := 0
	render := func() {
		messages := vm.Messages()
		for ; printed < len(messages); printed++ {
			m := messages[printed]
			if m.SenderID == selfID {
				color.Green.Printf("  you: %s\n", m.Text)
			} else {
				color.Cyan.Printf("  %s: %s\n", c.peerName, m.Text)
			}
		}
	}
	vm.SetOnChange(render)

	if err := vm.Open(ctx); err != nil {
		color.Red.Println(err)
		c.Navigate(contract.RouteDirectory, nil)
		return nil
	}
	render()
	color.Cyan.Printf("-- Chatting with %s (type /back to leave) --\n", c.peerName)

	for {
		line, err := c.prompt("> ")
		if err != nil {
			return err
		}
		if line == "/back" {
			c.Navigate(contract.RouteDirectory, nil)
			return nil
		}
		if line == "" {
			continue
		}
		if err := vm.Send(ctx, line); err != nil {
			color.Red.Printf("send failed, message kept unsent: %v\n", err)
		}
	}
}

func (c *terminalClient) prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
