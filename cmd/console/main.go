package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/constantswap/constantswap-go/cmd/console/config"
	"github.com/constantswap/constantswap-go/exchange"
	"github.com/constantswap/constantswap-go/liquiditypool"
	"github.com/constantswap/constantswap-go/tokenregistry"
)

// --- VISUAL CONSTANTS ---
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// header prints a styled section header
func header(title string) {
	fmt.Println("\n" + Bold + Cyan + ":: " + title + " ::" + Reset)
}

func printErr(err error) {
	fmt.Printf(Red+"[ERROR] %v%s\n", err, Reset)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- 1. SETUP LOGGING (To File) ---
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	rootLogger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))

	// --- 2. METRICS ---
	prometheusRegistry := prometheus.NewRegistry()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(prometheusRegistry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				rootLogger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	// --- 3. EXCHANGE ---
	system, err := exchange.NewSystem(&exchange.Config{
		Logger:   rootLogger.With("component", "exchange"),
		Registry: prometheusRegistry,
	})
	if err != nil {
		log.Fatalf("Failed to initialize exchange: %v", err)
	}

	header("CONSTANTSWAP CONSOLE")
	fmt.Println("Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Bold + "> " + Reset)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if err := dispatch(system, fields[0], fields[1:]); err != nil {
			printErr(err)
		}
	}
}

func dispatch(system *exchange.System, command string, args []string) error {
	switch command {
	case "add-token":
		if len(args) != 1 {
			return fmt.Errorf("usage: add-token NAME")
		}
		if err := system.AddToken(exchange.WriteAccess, args[0]); err != nil {
			return err
		}
		fmt.Printf(Green+"Token %q registered.%s\n", args[0], Reset)

	case "add-pool":
		if len(args) != 4 {
			return fmt.Errorf("usage: add-pool TOKEN_A TOKEN_B RESERVE_A RESERVE_B")
		}
		reserveA, reserveB, err := parseAmounts(args[2], args[3])
		if err != nil {
			return err
		}
		if err := system.AddPool(exchange.WriteAccess, args[0], args[1], reserveA, reserveB); err != nil {
			return err
		}
		fmt.Printf(Green+"Pool %s-%s registered with reserves (%d, %d).%s\n", args[0], args[1], reserveA, reserveB, Reset)

	case "add-liquidity":
		if len(args) != 4 {
			return fmt.Errorf("usage: add-liquidity TOKEN_A TOKEN_B AMOUNT_A AMOUNT_B")
		}
		amountA, amountB, err := parseAmounts(args[2], args[3])
		if err != nil {
			return err
		}
		if err := system.AddLiquidity(exchange.WriteAccess, args[0], args[1], amountA, amountB); err != nil {
			return err
		}
		fmt.Printf(Green+"Deposited (%d, %d) into %s-%s.%s\n", amountA, amountB, args[0], args[1], Reset)

	case "swap":
		if len(args) != 5 {
			return fmt.Errorf("usage: swap TOKEN_A TOKEN_B FROM TO AMOUNT_IN")
		}
		amountIn, err := strconv.ParseUint(args[4], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[4], err)
		}
		amountOut, err := system.Swap(exchange.WriteAccess, args[0], args[1], args[2], args[3], amountIn)
		if err != nil {
			return err
		}
		fmt.Printf(Green+"Swapped %d %s for %d %s.%s\n", amountIn, args[2], amountOut, args[3], Reset)

	case "price":
		if len(args) != 2 {
			return fmt.Errorf("usage: price TOKEN_A TOKEN_B")
		}
		price, err := system.Price(args[0], args[1])
		if err != nil {
			return err
		}
		num, den, err := system.PriceFraction(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("1 %s = %s %s (exact: %d/%d)\n", args[0], formatPrice(price), args[1], num, den)

	case "balance":
		if len(args) != 1 {
			return fmt.Errorf("usage: balance NAME")
		}
		fmt.Printf("%s: %d\n", args[0], system.Balance(args[0]))

	case "view":
		printView(system)

	case "help":
		printHelp()

	case "exit", "quit":
		fmt.Println(Yellow + "Exiting..." + Reset)
		os.Exit(0)

	default:
		return fmt.Errorf("unknown command %q (try 'help')", command)
	}
	return nil
}

func printView(system *exchange.System) {
	view := system.View()
	header(fmt.Sprintf("EXCHANGE VIEW (sequence %d)", view.Sequence))
	fmt.Printf("Checksum: %s\n", view.Checksum)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if sub, ok := view.Subsystems[exchange.TokenSubsystem]; ok {
		tokens, _ := sub.Data.([]tokenregistry.TokenView)
		fmt.Fprintln(writer, Bold+"TOKEN\tBALANCE"+Reset)
		for _, token := range tokens {
			fmt.Fprintf(writer, "%s\t%d\n", token.Name, token.Balance)
		}
	}
	writer.Flush()

	writer = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if sub, ok := view.Subsystems[exchange.PoolSubsystem]; ok {
		pools, _ := sub.Data.([]liquiditypool.PoolView)
		fmt.Fprintln(writer, Bold+"POOL\tRESERVE_A\tRESERVE_B"+Reset)
		for _, pool := range pools {
			fmt.Fprintf(writer, "%s\t%d\t%d\n", pool.Key, pool.ReserveA, pool.ReserveB)
		}
	}
	writer.Flush()
}

func printHelp() {
	header("COMMANDS")
	fmt.Println("add-token NAME")
	fmt.Println("add-pool TOKEN_A TOKEN_B RESERVE_A RESERVE_B")
	fmt.Println("add-liquidity TOKEN_A TOKEN_B AMOUNT_A AMOUNT_B")
	fmt.Println("swap TOKEN_A TOKEN_B FROM TO AMOUNT_IN")
	fmt.Println("price TOKEN_A TOKEN_B")
	fmt.Println("balance NAME")
	fmt.Println("view")
	fmt.Println("exit")
}

// formatPrice renders a fixed-point price as a decimal string.
func formatPrice(price uint64) string {
	whole := price / liquiditypool.PriceScale
	frac := price % liquiditypool.PriceScale
	return fmt.Sprintf("%d.%09d", whole, frac)
}

func parseAmounts(rawA, rawB string) (uint64, uint64, error) {
	amountA, err := strconv.ParseUint(rawA, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid amount %q: %w", rawA, err)
	}
	amountB, err := strconv.ParseUint(rawB, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid amount %q: %w", rawB, err)
	}
	return amountA, amountB, nil
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadConfig() (*config.ConsoleConfig, error) {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file.")
	flag.Parse()
	log.Printf("Loading configuration from: %s", *configPath)
	return config.LoadConfig(*configPath)
}
