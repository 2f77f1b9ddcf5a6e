package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/app"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/config"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/logging"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shopping"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFile,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
	})
	defer logCloser.Close()

	ctx := context.Background()
	rt, err := app.Open(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer rt.Close()

	if err := run(ctx, rt, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Errorf("%s failed: %v", os.Args[1], err)
		rt.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, rt *app.Runtime, command string, args []string, out io.Writer) error {
	switch command {
	case "week", "shopping", "workout":
		fs := flag.NewFlagSet(command, flag.ContinueOnError)
		userID := fs.String("user", "", "User id to show")
		offset := fs.Int("offset", 0, "Weeks from the current one")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return printView(ctx, rt.Service, command, *userID, *offset, out)

	case "metrics-cleanup":
		fs := flag.NewFlagSet(command, flag.ContinueOnError)
		days := fs.Int("days", 30, "Keep records for the last N days")
		if err := fs.Parse(args); err != nil {
			return err
		}
		affected, err := rt.Usage.Cleanup(ctx, *days)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Successfully removed %d old metric records.\n", affected)
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printView(ctx context.Context, svc *app.Service, view, userID string, offset int, out io.Writer) error {
	switch view {
	case "week":
		v, err := svc.Week(ctx, userID, offset)
		if err != nil {
			return err
		}
		printWeek(out, v)
	case "shopping":
		v, err := svc.ShoppingList(ctx, userID, offset)
		if err != nil {
			return err
		}
		printShopping(out, v)
	case "workout":
		v, err := svc.Workout(ctx, userID, offset)
		if err != nil {
			return err
		}
		printWorkout(out, v)
	}
	return nil
}

func printWeek(out io.Writer, v *app.WeekView) {
	fmt.Fprintf(out, "Meal plan %s\n", v.Range)
	for i, day := range v.Days {
		sum := v.Summaries[i]
		fmt.Fprintf(out, "\n%s %s", day.ShortName, day.Date.Format("Jan 2"))
		if day.DayNumber == v.Today {
			fmt.Fprint(out, " (today)")
		}
		fmt.Fprintf(out, "  %.0f kcal\n", sum.Totals.Calories)
		for _, group := range sum.Meals {
			for _, meal := range group.Items {
				fmt.Fprintf(out, "  %-10s %-32s %5.0f kcal  %s\n", group.Key, meal.Name, meal.Calories, meal.ID)
			}
		}
	}
	fmt.Fprintf(out, "\nWeek: %.0f kcal, protein %.0fg, carbs %.0fg, fat %.0fg\n",
		v.Plan.Totals.Calories, v.Plan.Totals.Protein, v.Plan.Totals.Carbs, v.Plan.Totals.Fat)
}

func printShopping(out io.Writer, v *app.ShoppingView) {
	fmt.Fprintf(out, "Shopping list %s (%d/%d checked)\n", v.Range, v.Progress.Completed, v.Progress.Total)

	var category shopping.Category
	for i, item := range v.Items {
		if item.Category != category {
			category = item.Category
			fmt.Fprintf(out, "\n%s\n", category)
		}
		mark := " "
		if v.Checklist.IsChecked(item.Key) {
			mark = "x"
		}
		fmt.Fprintf(out, "%3d. [%s] %s %s %s\n", i+1, mark, item.Name, shopping.FormatQuantity(item.Quantity), item.Unit)
	}
}

func printWorkout(out io.Writer, v *app.WorkoutView) {
	fmt.Fprintf(out, "%s %s\n", v.Program.ProgramName, v.Range)
	fmt.Fprintf(out, "Exercises %d/%d, days %d/%d\n",
		v.Progress.Completed, v.Progress.Total, v.DaysProgress.Completed, v.DaysProgress.Total)

	for _, wd := range v.Days {
		fmt.Fprintf(out, "\n%s %s", wd.Day.ShortName, wd.Day.Date.Format("Jan 2"))
		switch {
		case wd.Workout == nil:
			fmt.Fprintln(out, "  -")
			continue
		case wd.Workout.RestDay():
			fmt.Fprintln(out, "  rest day")
			continue
		}
		fmt.Fprintf(out, "  %s (%d%%)\n", wd.Workout.WorkoutName, wd.Progress.Rounded())
		for _, group := range wd.Groups.NonEmpty() {
			fmt.Fprintf(out, "  %s\n", strings.ToUpper(string(group.Key)))
			for _, rec := range group.Items {
				mark := " "
				if rec.Completed {
					mark = "x"
				}
				fmt.Fprintf(out, "    [%s] %-28s %d x %-6s %s\n", mark, rec.Name, rec.Sets, rec.Reps, rec.ID)
			}
		}
	}
}

func printUsage() {
	fmt.Println("Usage: body-wise <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  week -user <id> [-offset N]        Print the meal plan of a week")
	fmt.Println("  shopping -user <id> [-offset N]    Print the shopping list of a week")
	fmt.Println("  workout -user <id> [-offset N]     Print the exercise program of a week")
	fmt.Println("  metrics-cleanup [-days N]          Remove old metric records")
}
