package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/moneta-app/moneta/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moneta-cli",
		Short: "Moneta CLI tool",
		Long:  `A command line interface for interacting with the Moneta API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Moneta API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		accountCmd(),
		expenseCmd(),
		transferCmd(),
		tradeCmd(),
		budgetCmd(),
		paymentCmd(),
		journalCmd(),
		syncCmd(),
		summaryCmd(),
		migrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var name, kind, currency, institution string
	var openingBalance string

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Run: func(cmd *cobra.Command, args []string) {
			mustCreate("/api/v1/accounts", map[string]any{
				"name":            name,
				"kind":            kind,
				"currency":        currency,
				"institution":     institution,
				"opening_balance": openingBalance,
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Account name")
	createCmd.Flags().StringVar(&kind, "kind", "cash", "Account kind (cash, investment)")
	createCmd.Flags().StringVar(&currency, "currency", "EUR", "Currency code")
	createCmd.Flags().StringVar(&institution, "institution", "", "Institution name")
	createCmd.Flags().StringVar(&openingBalance, "opening-balance", "0", "Opening balance")
	createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			mustGet("/api/v1/accounts")
		},
	}

	cmd.AddCommand(createCmd, listCmd)
	return cmd
}

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Expense operations",
	}

	var accountID, budgetID, amount, category, merchant, notes string

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record an expense",
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]any{
				"account_id": accountID,
				"amount":     amount,
				"date":       time.Now().UTC().Format(time.RFC3339),
				"category":   category,
				"merchant":   merchant,
				"notes":      notes,
			}
			if budgetID != "" {
				payload["budget_id"] = budgetID
			}
			mustCreate("/api/v1/expenses", payload)
		},
	}
	recordCmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	recordCmd.Flags().StringVar(&budgetID, "budget", "", "Budget ID (optional)")
	recordCmd.Flags().StringVar(&amount, "amount", "", "Expense amount")
	recordCmd.Flags().StringVar(&category, "category", "", "Expense category")
	recordCmd.Flags().StringVar(&merchant, "merchant", "", "Merchant")
	recordCmd.Flags().StringVar(&notes, "notes", "", "Notes")
	recordCmd.MarkFlagRequired("account")
	recordCmd.MarkFlagRequired("amount")
	recordCmd.MarkFlagRequired("category")

	deleteCmd := &cobra.Command{
		Use:   "delete [expenseID]",
		Short: "Delete an expense, restoring balance and budget",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mustDelete("/api/v1/expenses/" + args[0])
			fmt.Println("Expense deleted")
		},
	}

	cmd.AddCommand(recordCmd, deleteCmd)
	return cmd
}

func transferCmd() *cobra.Command {
	var from, to, amount, notes string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move cash between accounts",
		Run: func(cmd *cobra.Command, args []string) {
			mustCreate("/api/v1/transfers", map[string]any{
				"from_account_id": from,
				"to_account_id":   to,
				"amount":          amount,
				"notes":           notes,
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source account ID")
	cmd.Flags().StringVar(&to, "to", "", "Destination account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Transfer amount")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func tradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Investment trade operations",
	}

	var accountID, symbol, name, assetKind, kind, quantity, price, fees, currency string

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record a buy or sell",
		Run: func(cmd *cobra.Command, args []string) {
			mustCreate("/api/v1/trades", map[string]any{
				"account_id": accountID,
				"symbol":     symbol,
				"name":       name,
				"asset_kind": assetKind,
				"kind":       kind,
				"quantity":   quantity,
				"price":      price,
				"fees":       fees,
				"currency":   currency,
				"trade_date": time.Now().UTC().Format(time.RFC3339),
			})
		},
	}
	recordCmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	recordCmd.Flags().StringVar(&symbol, "symbol", "", "Asset symbol")
	recordCmd.Flags().StringVar(&name, "name", "", "Asset name")
	recordCmd.Flags().StringVar(&assetKind, "asset-kind", "stock", "Asset kind (stock, fund, bond, money_market, crypto)")
	recordCmd.Flags().StringVar(&kind, "kind", "buy", "Trade kind (buy, sell)")
	recordCmd.Flags().StringVar(&quantity, "quantity", "", "Quantity")
	recordCmd.Flags().StringVar(&price, "price", "", "Unit price")
	recordCmd.Flags().StringVar(&fees, "fees", "0", "Fees")
	recordCmd.Flags().StringVar(&currency, "currency", "EUR", "Currency code")
	recordCmd.MarkFlagRequired("account")
	recordCmd.MarkFlagRequired("symbol")
	recordCmd.MarkFlagRequired("quantity")
	recordCmd.MarkFlagRequired("price")

	deleteCmd := &cobra.Command{
		Use:   "delete [tradeID]",
		Short: "Reverse the latest trade of a holding",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mustDelete("/api/v1/trades/" + args[0])
			fmt.Println("Trade reversed")
		},
	}

	cmd.AddCommand(recordCmd, deleteCmd)
	return cmd
}

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Budget lifecycle operations",
	}

	completeCmd := &cobra.Command{
		Use:   "complete [budgetID]",
		Short: "Mark a budget completed",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mustCreate("/api/v1/budgets/"+args[0]+"/complete", nil)
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel [budgetID]",
		Short: "Cancel a budget",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mustCreate("/api/v1/budgets/"+args[0]+"/cancel", nil)
		},
	}

	cmd.AddCommand(completeCmd, cancelCmd)
	return cmd
}

func paymentCmd() *cobra.Command {
	var liabilityID, accountID, amount, notes string

	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Record a liability payment",
		Run: func(cmd *cobra.Command, args []string) {
			mustCreate("/api/v1/liabilities/"+liabilityID+"/payments", map[string]any{
				"account_id": accountID,
				"amount":     amount,
				"paid_at":    time.Now().UTC().Format(time.RFC3339),
				"notes":      notes,
			})
		},
	}
	cmd.Flags().StringVar(&liabilityID, "liability", "", "Liability ID")
	cmd.Flags().StringVar(&accountID, "account", "", "Paying account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Payment amount")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.MarkFlagRequired("liability")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Cash-flow journal operations",
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile [accountID]",
		Short: "Replay journals against stored balances",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			accountID := ""
			if len(args) == 1 {
				accountID = args[0]
			}
			reconcile(accountID)
		},
	}

	cmd.AddCommand(reconcileCmd)
	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh market prices for all active holdings",
		Run: func(cmd *cobra.Command, args []string) {
			syncPrices()
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the cross-account dashboard totals",
		Run: func(cmd *cobra.Command, args []string) {
			showSummary()
		},
	}
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url",
		os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrations(databaseURL, migrationsPath); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migrations applied")
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrationsDown(databaseURL, migrationsPath); err != nil {
				fmt.Printf("Rollback failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migration rolled back")
		},
	}

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func reconcile(accountID string) {
	path := "/api/v1/accounts/reconcile"
	if accountID != "" {
		path = "/api/v1/accounts/" + accountID + "/reconcile"
	}

	body, status := get(path)
	if status != http.StatusOK {
		fmt.Printf("Reconciliation FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	if accountID != "" {
		var result map[string]any
		if err := json.Unmarshal(body, &result); err != nil {
			fmt.Printf("Failed to parse response: %v\n", err)
			os.Exit(1)
		}

		if consistent, ok := result["consistent"].(bool); ok && !consistent {
			fmt.Printf("Account %s is INCONSISTENT (drift: %v)\n", accountID, result["drift"])
			os.Exit(1)
		}

		fmt.Printf("Account %s is consistent\n", accountID)
		return
	}

	var results []map[string]any
	if err := json.Unmarshal(body, &results); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	inconsistent := 0
	for _, r := range results {
		if consistent, ok := r["consistent"].(bool); ok && !consistent {
			inconsistent++
			fmt.Printf("INCONSISTENT: account %v drift %v\n", r["account_id"], r["drift"])
		}
	}

	if inconsistent > 0 {
		fmt.Printf("%d of %d accounts inconsistent\n", inconsistent, len(results))
		os.Exit(1)
	}

	fmt.Printf("All %d accounts consistent\n", len(results))
}

func syncPrices() {
	body, status := post("/api/v1/sync", nil)
	if status != http.StatusOK {
		fmt.Printf("Sync FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sync %s\n", result["status"])
	fmt.Printf("Holdings: %v\n", result["holdings_count"])
	if failed, ok := result["failed_symbols"].([]any); ok && len(failed) > 0 {
		fmt.Printf("Failed symbols: %v\n", failed)
	}
}

func showSummary() {
	body, status := get("/api/v1/accounts/summary")
	if status != http.StatusOK {
		fmt.Printf("Summary FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

// mustCreate posts payload and pretty-prints the created resource.
func mustCreate(path string, payload any) {
	body, status := post(path, payload)
	if status < 200 || status >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
}

func mustGet(path string) {
	body, status := get(path)
	if status != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
}

func mustDelete(path string) {
	req, err := http.NewRequest(http.MethodDelete, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}
}

func get(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func post(path string, payload any) ([]byte, int) {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			fmt.Printf("Failed to encode payload: %v\n", err)
			os.Exit(1)
		}
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", &buf)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
