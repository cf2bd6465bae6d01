package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"jwtpizza/apperror"
	"jwtpizza/client"
	"jwtpizza/config"
	"jwtpizza/logger"
	"jwtpizza/model"
	"jwtpizza/repository"
	"jwtpizza/storefront"
)

const defaultURL = "http://localhost:8083"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// globalFlags are shared by every command.
type globalFlags struct {
	url      string
	email    string
	password string
	local    bool
	timeout  time.Duration
	verbose  bool
}

// opener builds the backend a command talks to.
type opener func(ctx context.Context, flags *globalFlags) (client.API, error)

func main() {
	root := newRootCmd(openBackend)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var ee *exitErr
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func openBackend(ctx context.Context, flags *globalFlags) (client.API, error) {
	log := logger.NewNoOpLogger()
	if flags.verbose {
		l, err := logger.NewStructured("debug", "console")
		if err == nil {
			log = l
		}
	}
	if flags.local {
		return client.NewSeeded(ctx, log)
	}

	url, timeout := flags.url, flags.timeout
	if url == "" {
		url = defaultURL
		if cfg, err := config.Load(); err == nil {
			url = cfg.Client.BaseURL
			if timeout == 0 {
				timeout = cfg.Client.Timeout
			}
		}
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return client.NewHTTP(url, timeout), nil
}

func newRootCmd(open opener) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "pizzactl",
		Short:         "Order pizza and manage franchises from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.url, "url", "", "Pizza service base URL (default from config, then "+defaultURL+")")
	pf.StringVar(&flags.email, "email", "", "Login email")
	pf.StringVar(&flags.password, "password", "", "Login password")
	pf.BoolVar(&flags.local, "local", false, "Use an in-process service with demo data instead of a server")
	pf.DurationVar(&flags.timeout, "timeout", 0, "HTTP timeout")
	pf.BoolVar(&flags.verbose, "verbose", false, "Log storefront activity to stderr")

	// shop opens the backend and logs in when credentials were given.
	shop := func(cmd *cobra.Command) (*storefront.Storefront, error) {
		api, err := open(cmd.Context(), flags)
		if err != nil {
			return nil, &exitErr{code: 3, msg: fmt.Sprintf("open backend: %s", err)}
		}
		sf := storefront.New(api, nil)
		if flags.email != "" {
			if _, err := sf.Login(cmd.Context(), flags.email, flags.password); err != nil {
				return nil, failure(err)
			}
		}
		return sf, nil
	}

	root.AddCommand(
		menuCmd(shop),
		franchisesCmd(shop),
		orderCmd(shop),
		historyCmd(shop),
		registerCmd(shop, flags),
		closeFranchiseCmd(shop),
		createStoreCmd(shop),
		deleteUserCmd(shop),
	)
	return root
}

type shopFunc func(cmd *cobra.Command) (*storefront.Storefront, error)

// failure maps backend errors to exit codes: 2 for rejected requests, 1 otherwise.
func failure(err error) error {
	kind := apperror.KindOf(err)
	if kind == apperror.Internal {
		return &exitErr{code: 1, msg: err.Error()}
	}
	return &exitErr{code: 2, msg: fmt.Sprintf("%s (%s)", apperror.Message(err), kind)}
}

func menuCmd(shop shopFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "List the menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := shop(cmd)
			if err != nil {
				return err
			}
			menu, err := sf.Menu(cmd.Context())
			if err != nil {
				return failure(err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPRICE\tDESCRIPTION")
			for _, m := range menu {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.ID, m.Title, storefront.FormatPrice(m.Price), m.Description)
			}
			return w.Flush()
		},
	}
}

func franchisesCmd(shop shopFunc) *cobra.Command {
	var name string
	var page, limit int
	cmd := &cobra.Command{
		Use:   "franchises",
		Short: "List franchises and their stores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := shop(cmd)
			if err != nil {
				return err
			}
			res, err := sf.Franchises(cmd.Context(), repository.Page{Page: page, Limit: limit, Name: name})
			if err != nil {
				return failure(err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FRANCHISE\tSTORE\tNAME\tREVENUE")
			for _, f := range res.Franchises {
				fmt.Fprintf(w, "%d\t\t%s\t\n", f.ID, f.Name)
				for _, s := range f.Stores {
					fmt.Fprintf(w, "\t%d\t%s\t%s\n", s.ID, s.Name, storefront.FormatPrice(s.TotalRevenue))
				}
			}
			if res.More {
				fmt.Fprintln(w, "...\t\t\t")
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&name, "name", "*", "Name filter, '*' matches anything")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&limit, "limit", repository.DefaultLimit, "Page size")
	return cmd
}

func orderCmd(shop shopFunc) *cobra.Command {
	var franchiseID, storeID uint
	var items []uint
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Order pizzas from one store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := shop(cmd)
			if err != nil {
				return err
			}
			menu, err := sf.Menu(cmd.Context())
			if err != nil {
				return failure(err)
			}
			byID := make(map[uint]model.MenuItem, len(menu))
			for _, m := range menu {
				byID[m.ID] = m
			}

			sf.SelectStore(franchiseID, storeID)
			for _, id := range items {
				m, ok := byID[id]
				if !ok {
					return &exitErr{code: 2, msg: fmt.Sprintf("unknown menu item %d", id)}
				}
				sf.AddToCart(m)
			}
			res, err := sf.Checkout(cmd.Context())
			if err != nil {
				return failure(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Order %d confirmed\n", res.Order.ID)
			for _, it := range res.Order.Items {
				fmt.Fprintf(out, "  %s  %s\n", it.Description, storefront.FormatPrice(it.Price))
			}
			fmt.Fprintf(out, "Total: %s\n", storefront.FormatPrice(res.Order.Total()))
			fmt.Fprintf(out, "JWT: %s\n", res.JWT)
			return nil
		},
	}
	f := cmd.Flags()
	f.UintVar(&franchiseID, "franchise", 0, "Franchise id")
	f.UintVar(&storeID, "store", 0, "Store id")
	f.UintSliceVar(&items, "item", nil, "Menu item id (may be repeated)")
	return cmd
}

func historyCmd(shop shopFunc) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your past orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := shop(cmd)
			if err != nil {
				return err
			}
			res, err := sf.History(cmd.Context(), page)
			if err != nil {
				return failure(err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDER\tDATE\tITEMS\tTOTAL")
			for _, o := range res.Orders {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", o.ID, o.Date.Format(time.DateTime), len(o.Items), storefront.FormatPrice(o.Total()))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	return cmd
}

func registerCmd(shop shopFunc, flags *globalFlags) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a diner account from --name, --email and --password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email := flags.email
			// The shared login step must not run for an account that does not exist yet.
			flags.email = ""
			defer func() { flags.email = email }()

			sf, err := shop(cmd)
			if err != nil {
				return err
			}
			user, err := sf.Register(cmd.Context(), name, email, flags.password)
			if err != nil {
				return failure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s) as user %s\n", user.Name, storefront.Initials(user.Name), user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	return cmd
}

func closeFranchiseCmd(shop shopFunc) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "close-franchise <franchise-id>",
		Short: "Close a franchise and all of its stores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sf, err := shop(cmd)
			if err != nil {
				return err
			}
			f, err := findFranchise(cmd.Context(), sf, id)
			if err != nil {
				return err
			}
			closed, err := sf.CloseFranchise(cmd.Context(), *f, confirmer(cmd, yes))
			if err != nil {
				return failure(err)
			}
			report(cmd.OutOrStdout(), closed, "Closed franchise "+f.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func createStoreCmd(shop shopFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "create-store <franchise-id> <name>",
		Short: "Open a store in a franchise you administer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sf, err := shop(cmd)
			if err != nil {
				return err
			}
			store, err := sf.CreateStore(cmd.Context(), id, args[1])
			if err != nil {
				return failure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created store %d %s in franchise %d\n", store.ID, store.Name, store.FranchiseID)
			return nil
		},
	}
}

func deleteUserCmd(shop shopFunc) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-user <user-id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseUserID(args[0])
			if err != nil {
				return &exitErr{code: 2, msg: fmt.Sprintf("invalid user id %q", args[0])}
			}
			sf, err := shop(cmd)
			if err != nil {
				return err
			}
			user := &model.User{ID: id, Name: "user " + id.String()}
			if page, err := sf.Users(cmd.Context(), repository.Page{Limit: 1000}); err == nil {
				for i := range page.Users {
					if page.Users[i].ID == id {
						user = &page.Users[i]
					}
				}
			}
			deleted, err := sf.DeleteUser(cmd.Context(), user, confirmer(cmd, yes))
			if err != nil {
				return failure(err)
			}
			report(cmd.OutOrStdout(), deleted, "Deleted "+user.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, &exitErr{code: 2, msg: fmt.Sprintf("invalid id %q", s)}
	}
	return uint(id), nil
}

func findFranchise(ctx context.Context, sf *storefront.Storefront, id uint) (*model.Franchise, error) {
	for page := 0; ; page++ {
		res, err := sf.Franchises(ctx, repository.Page{Page: page, Limit: 50})
		if err != nil {
			return nil, failure(err)
		}
		for i := range res.Franchises {
			if res.Franchises[i].ID == id {
				return &res.Franchises[i], nil
			}
		}
		if !res.More {
			return nil, failure(apperror.Newf(apperror.NotFound, "franchise %d not found", id))
		}
	}
}

// confirmer asks on the command's stdin unless yes is set.
func confirmer(cmd *cobra.Command, yes bool) storefront.Confirm {
	if yes {
		return nil
	}
	return func(prompt string) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}

func report(out io.Writer, done bool, msg string) {
	if !done {
		fmt.Fprintln(out, "Cancelled")
		return
	}
	fmt.Fprintln(out, msg)
}
