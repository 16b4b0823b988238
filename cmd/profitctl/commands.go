package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/config"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
)

type cli struct {
	ratesFile string
	asJSON    bool
	engine    *profit.Engine
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:               "profitctl",
		Short:             "Profit and cost calculations for the back-office",
		SilenceUsage:      true,
		PersistentPreRunE: c.loadEngine,
	}
	root.PersistentFlags().StringVar(&c.ratesFile, "rates", "", "YAML rate table (defaults to PROFIT_RATES_FILE)")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		newLineCmd(c),
		newOrderCmd(c),
		newCustomerCmd(c),
		newMonthlyCmd(c),
		newTaxCmd(c),
		newShippingCmd(c),
		newBreakEvenCmd(c),
	)
	return root
}

func (c *cli) loadEngine(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.ratesFile != "" {
		cfg.ProfitRatesFile = c.ratesFile
	}
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}
	c.engine = profit.NewEngine(engineCfg)
	return nil
}

func (c *cli) report(cmd *cobra.Command) reporter {
	return reporter{out: cmd.OutOrStdout(), json: c.asJSON}
}

func newLineCmd(c *cli) *cobra.Command {
	var (
		selling, purchase decimal.Decimal
		shipping, taxRate decimal.NullDecimal
		country           string
		quantity          int
	)
	cmd := &cobra.Command{
		Use:   "line",
		Short: "Profit of one product line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := profit.LineInput{
				SellingPrice:  selling,
				PurchasePrice: purchase,
				ShippingCost:  c.engine.DefaultShipping(),
				Quantity:      quantity,
			}
			if shipping.Valid {
				in.ShippingCost = shipping.Decimal
			}
			switch {
			case taxRate.Valid:
				in.TaxRatePercent = taxRate.Decimal
			case country != "":
				in.TaxRatePercent = c.engine.TaxRate(country)
			default:
				return fmt.Errorf("either --tax-rate or --country is required")
			}
			b, err := profit.Line(in)
			if err != nil {
				return err
			}
			return c.report(cmd).write("line", b)
		},
	}
	cmd.Flags().Var(decimalValue{&selling}, "selling-price", "Selling price per unit")
	cmd.Flags().Var(decimalValue{&purchase}, "purchase-price", "Purchase price per unit")
	cmd.Flags().Var(optionalDecimal{&shipping}, "shipping-cost", "Shipping cost per unit (defaults to the configured rate)")
	cmd.Flags().Var(optionalDecimal{&taxRate}, "tax-rate", "VAT percentage; overrides --country")
	cmd.Flags().StringVar(&country, "country", "", "Destination country used to look up VAT")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Number of units")
	_ = cmd.MarkFlagRequired("selling-price")
	_ = cmd.MarkFlagRequired("purchase-price")
	return cmd
}

func newOrderCmd(c *cli) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Profit of an order read from a JSON file",
		Long:  `The file holds {"country": "...", "lines": [...]}; pass "-" to read standard input.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := readOrder(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			b, err := c.engine.Order(in.Lines, in.Country)
			if err != nil {
				return err
			}
			return c.report(cmd).write("order", b)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Order JSON file")
	return cmd
}

func readOrder(stdin io.Reader, path string) (profit.OrderInput, error) {
	var in profit.OrderInput
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return in, fmt.Errorf("open order: %w", err)
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, fmt.Errorf("decode order: %w", err)
	}
	return in, nil
}

func newCustomerCmd(c *cli) *cobra.Command {
	var in profit.CustomerInput
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Lifetime profit estimate of a customer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := profit.Customer(in)
			if err != nil {
				return err
			}
			return c.report(cmd).write("customer", out)
		},
	}
	cmd.Flags().Var(decimalValue{&in.TotalSpent}, "total-spent", "Lifetime revenue of the customer")
	cmd.Flags().Var(decimalValue{&in.AverageMarginPercentage}, "margin", "Average margin percentage")
	cmd.Flags().Var(decimalValue{&in.AverageShippingCostPerOrder}, "shipping-per-order", "Average shipping cost per order")
	cmd.Flags().IntVar(&in.TotalOrders, "orders", 0, "Number of orders")
	_ = cmd.MarkFlagRequired("total-spent")
	_ = cmd.MarkFlagRequired("margin")
	return cmd
}

func newMonthlyCmd(c *cli) *cobra.Command {
	var in profit.MonthlyInput
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Monthly profit from a flat margin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := profit.Monthly(in)
			if err != nil {
				return err
			}
			return c.report(cmd).write("period", out)
		},
	}
	cmd.Flags().Var(decimalValue{&in.Revenue}, "revenue", "Revenue of the month")
	cmd.Flags().Var(decimalValue{&in.MarginPercentage}, "margin", "Gross margin percentage")
	cmd.Flags().Var(decimalValue{&in.FixedCosts}, "fixed-costs", "Fixed costs of the month")
	cmd.Flags().Var(decimalValue{&in.AdSpend}, "ad-spend", "Advertising spend of the month")
	cmd.Flags().Var(decimalValue{&in.AverageShippingCostPerOrder}, "shipping-per-order", "Average shipping cost per order")
	cmd.Flags().IntVar(&in.OrderCount, "orders", 0, "Number of orders")
	_ = cmd.MarkFlagRequired("revenue")
	_ = cmd.MarkFlagRequired("margin")
	return cmd
}

func newTaxCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tax <country>",
		Short: "VAT rate of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, known := c.engine.TaxTable().Lookup(args[0])
			return c.report(cmd).write("tax", taxReport{Country: args[0], Rate: rate, Known: known})
		},
	}
}

func newShippingCmd(c *cli) *cobra.Command {
	var (
		country string
		weight  int
		value   decimal.Decimal
	)
	cmd := &cobra.Command{
		Use:   "shipping",
		Short: "Shipping quote for a destination",
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := c.engine.ShippingQuote(country, weight, value)
			if err != nil {
				return err
			}
			return c.report(cmd).write("shipping", q)
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "Destination country")
	cmd.Flags().IntVar(&weight, "weight", 0, "Total weight in grams")
	cmd.Flags().Var(decimalValue{&value}, "order-value", "Order value")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func newBreakEvenCmd(c *cli) *cobra.Command {
	var in profit.BreakEvenInput
	cmd := &cobra.Command{
		Use:   "break-even",
		Short: "Break-even position of the current month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := profit.BreakEven(in)
			if err != nil {
				return err
			}
			return c.report(cmd).write("break-even", out)
		},
	}
	cmd.Flags().Var(decimalValue{&in.MonthlyFixedCosts}, "fixed-costs", "Monthly fixed costs")
	cmd.Flags().Var(decimalValue{&in.MonthlyAdSpend}, "ad-spend", "Monthly advertising spend")
	cmd.Flags().Var(decimalValue{&in.GrossMarginPercentage}, "margin", "Gross margin percentage")
	cmd.Flags().Var(decimalValue{&in.RevenueToDate}, "revenue-to-date", "Revenue so far this month")
	cmd.Flags().IntVar(&in.DaysIntoMonth, "day", 1, "Day of the month")
	_ = cmd.MarkFlagRequired("margin")
	return cmd
}
