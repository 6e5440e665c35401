package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
)

// ConsoleMap draws the map as lines of text.
type ConsoleMap struct {
	out io.Writer
}

func NewConsoleMap(out io.Writer) *ConsoleMap {
	return &ConsoleMap{out: out}
}

func (m *ConsoleMap) Center(p model.Coordinates) {
	fmt.Fprintf(m.out, "map centered at %.5f, %.5f (zoom %d)\n", p.Lat, p.Lng, DefaultZoom)
}

func (m *ConsoleMap) NewMarker(p model.Coordinates) Marker {
	fmt.Fprintf(m.out, "marker X placed at %.5f, %.5f\n", p.Lat, p.Lng)
	return &consoleMarker{out: m.out, at: p}
}

type consoleMarker struct {
	out io.Writer
	at  model.Coordinates
}

func (mk *consoleMarker) Remove() {
	fmt.Fprintf(mk.out, "marker at %.5f, %.5f removed\n", mk.at.Lat, mk.at.Lng)
}

type ConsoleAlerter struct {
	out io.Writer
}

func NewConsoleAlerter(out io.Writer) *ConsoleAlerter {
	return &ConsoleAlerter{out: out}
}

func (a *ConsoleAlerter) Alert(msg string) {
	fmt.Fprintf(a.out, "!! %s\n", msg)
}

const consoleHelp = `commands:
  locate                  use this device's location
  search <address>        find an address on the map
  click <lat> <lng>       drop the pin at a point
  list                    show saved addresses
  save                    open the form for the pinned point
  edit <id>               open the form for a saved address
  set <field> <value>     house, apartment, category, favorite
  submit                  save the form
  cancel                  close the form
  fav <id>                toggle favorite
  delete <id>             remove a saved address
  nearest                 closest saved address to the pin
  quit
`

// RunConsole reads commands from in until EOF, quit, or ctx is done.
func RunConsole(ctx context.Context, s *Session, in io.Reader, out io.Writer) error {
	if err := s.Load(ctx); err != nil {
		fmt.Fprintln(out, "could not load saved addresses:", err)
	}
	fmt.Fprintln(out, "Allow location access with 'locate', or 'search <address>'. Type 'help' for commands.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := runCommand(ctx, s, cmd, rest, out); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
}

func runCommand(ctx context.Context, s *Session, cmd, rest string, out io.Writer) error {
	switch cmd {
	case "help":
		fmt.Fprint(out, consoleHelp)
	case "locate":
		return s.ChooseByGeolocation(ctx)
	case "search":
		return s.ChooseByAddress(ctx, rest)
	case "click":
		p, err := ParsePoint(rest)
		if err != nil {
			return err
		}
		return s.ChooseByMapClick(p.Lat, p.Lng)
	case "list":
		printAddresses(out, s.State().Addresses)
	case "save":
		if err := s.OpenForm(); err != nil {
			return err
		}
		printForm(out, s.State())
	case "edit":
		if err := s.Edit(rest); err != nil {
			return err
		}
		printForm(out, s.State())
	case "set":
		field, value, _ := strings.Cut(rest, " ")
		if err := s.SetField(field, strings.TrimSpace(value)); err != nil {
			return err
		}
		printForm(out, s.State())
	case "submit":
		if err := s.Submit(ctx); err != nil {
			return err
		}
		printAddresses(out, s.State().Addresses)
	case "cancel":
		s.CancelForm()
	case "fav":
		if err := s.ToggleFavorite(ctx, rest); err != nil {
			return err
		}
		printAddresses(out, s.State().Addresses)
	case "delete":
		if err := s.Delete(ctx, rest); err != nil {
			return err
		}
		printAddresses(out, s.State().Addresses)
	case "nearest":
		address, meters, ok := s.NearestSaved()
		if !ok {
			fmt.Fprintln(out, "nothing to compare")
			return nil
		}
		fmt.Fprintf(out, "%s (%.0f m away)\n", formatAddress(address), meters)
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	return nil
}

// ParsePoint reads "lat lng" or "lat,lng".
func ParsePoint(s string) (model.Coordinates, error) {
	parts := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(parts) != 2 {
		return model.Coordinates{}, fmt.Errorf("expected <lat> <lng>, got %q", s)
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	return model.Coordinates{Lat: lat, Lng: lng}, nil
}

func formatAddress(a model.Address) string {
	star := ""
	if a.Favorite {
		star = " *"
	}
	return fmt.Sprintf("[%s] %s, %s, %s%s", a.ID, a.House, a.Apartment, a.Category, star)
}

func printAddresses(out io.Writer, addresses []model.Address) {
	fmt.Fprintln(out, "Saved Addresses")
	if len(addresses) == 0 {
		fmt.Fprintln(out, "  No addresses available.")
		return
	}
	for _, a := range addresses {
		fmt.Fprintln(out, "  "+formatAddress(a))
	}
}

func printForm(out io.Writer, st State) {
	action := "Save"
	if st.EditingID != "" {
		action = "Update"
	}
	fmt.Fprintf(out, "%s Address at %.5f, %.5f\n", action, st.Position.Lat, st.Position.Lng)
	fmt.Fprintf(out, "  house=%q apartment=%q category=%q favorite=%t\n",
		st.Form.House, st.Form.Apartment, st.Form.Category, st.Form.Favorite)
}
