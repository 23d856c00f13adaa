package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"futures-order-cli/internal/api"
	"futures-order-cli/internal/config"
	"futures-order-cli/internal/logger"
	"futures-order-cli/internal/trade"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
)

// The margin estimate and balance check are denominated in the quote asset.
// USDⓈ-M contracts settle in USDT.
const quoteAsset = "USDT"

type cliFlags struct {
	symbol     *string
	side       *string
	orderType  *string
	quantity   *string
	leverage   *int
	price      *string
	stopPrice  *string
	tif        *string
	reduceOnly *bool
	marginType *string
	envFile    *string
	testnet    *bool
	debug      *bool
}

func registerFlags() *cliFlags {
	return &cliFlags{
		symbol:     flag.String("symbol", "", "Contract symbol (e.g. BTCUSDT)"),
		side:       flag.String("side", "", "Order side: BUY or SELL"),
		orderType:  flag.String("type", "MARKET", "Order type: MARKET, LIMIT or STOP_LIMIT"),
		quantity:   flag.String("quantity", "", "Requested quantity in base asset (e.g. 0.003)"),
		leverage:   flag.Int("leverage", 0, "Desired leverage (e.g. 20)"),
		price:      flag.String("price", "", "Limit price (LIMIT and STOP_LIMIT)"),
		stopPrice:  flag.String("stop-price", "", "Stop trigger price (STOP_LIMIT)"),
		tif:        flag.String("tif", "GTC", "Time in force for LIMIT orders"),
		reduceOnly: flag.Bool("reduce-only", false, "Only reduce an existing position"),
		marginType: flag.String("margin-type", "ISOLATED", "Margin type: ISOLATED or CROSSED"),
		envFile:    flag.String("env", ".env", "Environment file path"),
		testnet:    flag.Bool("testnet", true, "Use the futures testnet"),
		debug:      flag.Bool("debug", false, "Enable debug logging"),
	}
}

func main() {
	flags := registerFlags()
	flag.Parse()

	logger.Init(*flags.debug)
	logger.Info("Starting futures order CLI")

	cfg, err := config.Load(*flags.envFile)
	if err != nil {
		fail("Configuration error: %v", err)
	}

	testnet := cfg.Testnet
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "testnet" {
			testnet = *flags.testnet
		}
	})

	in := bufio.NewReader(os.Stdin)

	symbol := strings.ToUpper(promptIfEmpty(in, *flags.symbol, "Symbol (e.g. BTCUSDT / ETHUSDT)"))
	side := strings.ToUpper(promptIfEmpty(in, *flags.side, "Side (BUY / SELL)"))
	orderType := strings.ToUpper(*flags.orderType)

	if side != string(trade.SideBuy) && side != string(trade.SideSell) {
		fail("Invalid side %q: must be BUY or SELL", side)
	}
	switch trade.OrderType(orderType) {
	case trade.OrderTypeMarket, trade.OrderTypeLimit, trade.OrderTypeStopLimit:
	default:
		fail("Invalid order type %q: must be MARKET, LIMIT or STOP_LIMIT", orderType)
	}

	qtyInput := promptIfEmpty(in, *flags.quantity, "Quantity (e.g. 0.003)")
	requestedQty, err := decimal.NewFromString(qtyInput)
	if err != nil {
		fail("Invalid quantity %q: %v", qtyInput, err)
	}

	leverage := *flags.leverage
	if leverage == 0 {
		leverageInput := promptIfEmpty(in, "", "Desired leverage (e.g. 20)")
		leverage, err = strconv.Atoi(leverageInput)
		if err != nil {
			fail("Invalid leverage %q: %v", leverageInput, err)
		}
	}

	req := trade.OrderRequest{
		Symbol:      symbol,
		Side:        trade.Side(side),
		Type:        trade.OrderType(orderType),
		TimeInForce: *flags.tif,
		ReduceOnly:  *flags.reduceOnly,
	}

	switch req.Type {
	case trade.OrderTypeLimit:
		req.Price = parsePriceFlag(in, *flags.price, "Limit price")
	case trade.OrderTypeStopLimit:
		req.StopPrice = parsePriceFlag(in, *flags.stopPrice, "Stop trigger price")
		req.Price = parsePriceFlag(in, *flags.price, "Limit price")
	}

	client := api.NewBinanceClient(cfg.APIKey, cfg.APISecret, testnet, cfg.RecvWindowMS)
	if err := client.SyncTime(); err != nil {
		logger.Warn("Failed to synchronize time with Binance, using local clock", "error", err)
	}

	trader := trade.NewTrader(client, cfg.MarginBufferPct, cfg.MarginPrecision)

	// Margin type is best-effort preflight: a contract with open positions
	// refuses the change and the order can still go through.
	if err := client.ChangeMarginType(symbol, strings.ToUpper(*flags.marginType)); err != nil {
		logger.Warn("Failed to change margin type, continuing", "symbol", symbol, "error", err)
	}

	if _, err := client.ChangeLeverage(symbol, leverage); err != nil {
		fail("Failed to set leverage %d for %s: %v", leverage, symbol, err)
	}

	adjusted, err := trader.PrepareQuantity(symbol, requestedQty, leverage)
	if err != nil {
		fmt.Printf("\n❌ Quantity/notional validation failed: %v\n", err)
		if trade.IsKind(err, trade.KindNotionalTooLow) {
			fmt.Println("Suggestion: try a larger quantity or a cheaper contract (e.g. ETHUSDT).")
		}
		logger.Error("Validation failed", "symbol", symbol, "error", err)
		os.Exit(1)
	}
	req.Quantity = adjusted.Quantity

	required := trader.EstimateRequiredMargin(adjusted.Notional, leverage)
	available, err := trader.CheckAvailableMargin(quoteAsset, required)
	if err != nil {
		if trade.IsKind(err, trade.KindInsufficientBalance) {
			fmt.Printf("\n❌ %v\n", err)
			fmt.Println("Options:")
			fmt.Println(" - Increase leverage (if the contract allows it), OR")
			fmt.Println(" - Use a cheaper contract (e.g. ETHUSDT), OR")
			fmt.Println(" - Fund the wallet (testnet faucet for testnet runs).")
			fmt.Println("\nNote: margin type and leverage were already applied and are not rolled back.")
			logger.Error("Insufficient balance", "symbol", symbol, "available", available, "required", required)
			os.Exit(1)
		}
		fail("Balance check failed: %v", err)
	}

	printPreflight(symbol, requestedQty, adjusted, available, required, leverage)

	order, err := trader.PlaceOrder(req)
	if err != nil {
		fmt.Printf("\n❌ Order placement failed: %v\n", err)
		fmt.Println("Note: margin type and leverage were already applied and are not rolled back.")
		logger.Error("Order placement failed", "symbol", symbol, "error", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ %s order placed.\n", orderType)
	printResult(order.Symbol, order.OrderID, order.Status, order.OrigQty, order.ExecutedQty)
}

func printPreflight(symbol string, requested decimal.Decimal, adjusted *trade.AdjustedQuantity, available, required decimal.Decimal, leverage int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Order Preflight")
	t.AppendRows([]table.Row{
		{"Symbol", symbol},
		{"Mark price", adjusted.Price},
		{"Requested qty", requested},
		{"Adjusted qty", adjusted.Quantity},
		{"Notional", fmt.Sprintf("%s %s", adjusted.Notional.StringFixed(2), quoteAsset)},
		{"Leverage", leverage},
		{"Available", fmt.Sprintf("%s %s", available, quoteAsset)},
		{"Est. required margin", fmt.Sprintf("%s %s", required, quoteAsset)},
	})
	t.Render()
}

func printResult(symbol string, orderID int64, status, origQty, executedQty string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{"Symbol", symbol},
		{"Order ID", orderID},
		{"Status", status},
		{"Orig qty", origQty},
		{"Executed qty", executedQty},
	})
	t.Render()
}

func promptIfEmpty(in *bufio.Reader, value, label string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	fmt.Printf("%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil {
		fail("Failed to read input for %s: %v", label, err)
	}
	return strings.TrimSpace(line)
}

func parsePriceFlag(in *bufio.Reader, value, label string) decimal.Decimal {
	input := promptIfEmpty(in, value, label)
	price, err := decimal.NewFromString(input)
	if err != nil {
		fail("Invalid %s %q: %v", strings.ToLower(label), input, err)
	}
	return price
}

func fail(format string, args ...any) {
	fmt.Printf("❌ "+format+"\n", args...)
	logger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
