// Command client is a small terminal front end for the event-discovery
// API, mainly useful for poking at a running server with a persisted
// session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"eventdiscovery/internal/client/api"
	"eventdiscovery/internal/client/session"
	"eventdiscovery/internal/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: client [-server URL] <command> [args]

commands:
  register <name> <email> <password>
  login <email> <password>
  logout
  whoami
  events [category] [date]
  my-events
  create-event <title> <date> <category> <location>
  categories`)
	os.Exit(2)
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "server base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}

	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)
	store := session.NewStore(filepath.Join(dir, "eventdiscovery"))
	client := api.New(*serverURL)
	mgr := session.NewManager(store, client, logger)
	mgr.Restore()

	ctx := context.Background()

	switch args[0] {
	case "register":
		if len(args) != 4 {
			usage()
		}
		report(mgr.Register(ctx, api.RegisterParams{Name: args[1], Email: args[2], Password: args[3]}))

	case "login":
		if len(args) != 3 {
			usage()
		}
		report(mgr.Login(ctx, args[1], args[2]))

	case "logout":
		report(mgr.Logout(ctx))

	case "whoami":
		user, ok := mgr.CurrentUser()
		if !ok {
			fmt.Println("not logged in")
			return
		}
		fmt.Printf("%s <%s> (profile completed: %v)\n", user.Name, user.Email, user.IsProfileCompleted)

	case "events":
		var filter api.EventFilter
		if len(args) > 1 {
			filter.Category = args[1]
		}
		if len(args) > 2 {
			filter.Date = args[2]
		}
		events, err := client.ListEvents(ctx, filter)
		if err != nil {
			fail(err)
		}
		printEvents(events)

	case "my-events":
		events, err := client.MyEvents(ctx, mgr.Token())
		if err != nil {
			fail(err)
		}
		printEvents(events)

	case "create-event":
		if len(args) != 5 {
			usage()
		}
		ev, err := client.CreateEvent(ctx, mgr.Token(), api.CreateEventParams{
			Title:    args[1],
			Date:     args[2],
			Category: args[3],
			Location: args[4],
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("created event %d: %s\n", ev.ID, ev.Title)

	case "categories":
		categories, err := client.ListCategories(ctx)
		if err != nil {
			fail(err)
		}
		for _, cat := range categories {
			fmt.Printf("%d\t%s\n", cat.ID, cat.Name)
		}

	default:
		usage()
	}
}

func report(res session.Result) {
	if !res.OK {
		fmt.Fprintln(os.Stderr, res.Message)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func printEvents(events []api.Event) {
	for _, ev := range events {
		venue := ev.Location
		if ev.IsOnline {
			venue = ev.MeetingLink
		}
		fmt.Printf("%d\t%s\t%s\t%s\t%s\tby %s\n", ev.ID, ev.Date, ev.Time, ev.Category, venue, ev.Organizer.Name)
	}
	if len(events) == 0 {
		fmt.Println("no events")
	}
}
