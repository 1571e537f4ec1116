package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T, storeName string) (*Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Store.Path = filepath.Join(dir, storeName)

	store := storage.Open(cfg.Store.Path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := NewContext(cfg, filepath.Join(dir, "config.yaml"), store, 1)
	ctx.Now = func() time.Time { return testNow }
	ctx.Out = out
	ctx.In = strings.NewReader("")
	return ctx, out
}

func mustRun(t *testing.T, ctx *Context, cmd interface{ Run(*Context) error }) {
	t.Helper()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("%T failed: %v", cmd, err)
	}
}

func addHabit(t *testing.T, ctx *Context, name string) models.Habit {
	t.Helper()
	mustRun(t, ctx, &HabitAddCmd{Name: name, Target: 1, Unit: "times", Frequency: "daily", Category: "health"})
	h, err := ctx.findHabit(name)
	if err != nil {
		t.Fatalf("habit %s not found after add: %v", name, err)
	}
	return h
}

func TestResolveDate(t *testing.T) {
	ctx, _ := setupTestContext(t, "daybook.json")
	tests := map[string]string{
		"":           "2024-03-10",
		"today":      "2024-03-10",
		"Yesterday":  "2024-03-09",
		"2024-01-31": "2024-01-31",
	}
	for in, want := range tests {
		got, err := ctx.resolveDate(in)
		if err != nil || got != want {
			t.Errorf("resolveDate(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ctx.resolveDate("31/01/2024"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestHabitLifecycle(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	h := addHabit(t, ctx, "Read")

	mustRun(t, ctx, &HabitListCmd{})
	if !strings.Contains(out.String(), "Read") {
		t.Errorf("habit list missing habit:\n%s", out)
	}

	name := "Read more"
	mustRun(t, ctx, &HabitEditCmd{Habit: h.ID[:6], Name: &name, Archive: true})
	edited, err := ctx.Journal.GetHabit(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if edited.Name != name || edited.IsActive {
		t.Errorf("edit not applied: %+v", edited)
	}

	out.Reset()
	mustRun(t, ctx, &HabitListCmd{})
	if !strings.Contains(out.String(), "No habits found") {
		t.Errorf("archived habit should be hidden:\n%s", out)
	}

	mustRun(t, ctx, &HabitDeleteCmd{Habit: "read more"})
	if _, err := ctx.Journal.GetHabit(h.ID); !errors.Is(err, journal.ErrHabitNotFound) {
		t.Errorf("expected habit deleted, got %v", err)
	}
}

func TestHabitEditRejectsBadValues(t *testing.T) {
	ctx, _ := setupTestContext(t, "daybook.json")
	addHabit(t, ctx, "Read")

	freq := "hourly"
	if err := (&HabitEditCmd{Habit: "Read", Frequency: &freq}).Run(ctx); err == nil {
		t.Error("expected invalid frequency error")
	}
	target := -1.0
	if err := (&HabitEditCmd{Habit: "Read", Target: &target}).Run(ctx); err == nil {
		t.Error("expected invalid target error")
	}
}

func TestFindHabitAmbiguousPrefix(t *testing.T) {
	ctx, _ := setupTestContext(t, "daybook.json")
	addHabit(t, ctx, "Read")
	addHabit(t, ctx, "Run")

	if _, err := ctx.findHabit(""); err == nil {
		t.Error("empty reference should be ambiguous")
	}
	if _, err := ctx.findHabit("Swim"); !errors.Is(err, journal.ErrHabitNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestHabitCompleteAndUncomplete(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	h := addHabit(t, ctx, "Read")

	mustRun(t, ctx, &HabitCompleteCmd{Habit: "Read", Date: "today"})
	mustRun(t, ctx, &HabitCompleteCmd{Habit: "Read", Date: "yesterday"})

	completions, err := ctx.Journal.ListCompletions(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(completions) != 2 {
		t.Fatalf("got %d completions, want 2", len(completions))
	}

	mustRun(t, ctx, &HabitUncompleteCmd{Habit: "Read", Date: "today"})
	completions, _ = ctx.Journal.ListCompletions(h.ID)
	if len(completions) != 1 || completions[0].Date != "2024-03-09" {
		t.Errorf("unexpected completions after uncomplete: %+v", completions)
	}

	out.Reset()
	mustRun(t, ctx, &HabitUncompleteCmd{Habit: "Read", Date: "today"})
	if !strings.Contains(out.String(), "was not marked done") {
		t.Errorf("expected nothing-to-clear message:\n%s", out)
	}
}

func TestHabitLogStoresRating(t *testing.T) {
	ctx, _ := setupTestContext(t, "daybook.json")
	h := addHabit(t, ctx, "Read")

	mustRun(t, ctx, &HabitLogCmd{Habit: "Read", Rating: "4"})
	got, _ := ctx.Journal.GetHabit(h.ID)
	if got.Rating != 4 {
		t.Errorf("habit rating = %v, want 4", got.Rating)
	}
	if err := (&HabitLogCmd{Habit: "Read", Rating: "6"}).Run(ctx); err == nil {
		t.Error("expected out of range rating error")
	}
}

func TestHabitHistory(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	addHabit(t, ctx, "Read")
	note := "chapter 3"
	mustRun(t, ctx, &HabitCompleteCmd{Habit: "Read", Date: "2024-03-08", Note: &note})
	mustRun(t, ctx, &HabitCompleteCmd{Habit: "Read", Date: "2024-01-01"})

	out.Reset()
	mustRun(t, ctx, &HabitHistoryCmd{Habit: "Read", To: "today"})
	if !strings.Contains(out.String(), "2024-03-08") || !strings.Contains(out.String(), "chapter 3") {
		t.Errorf("history missing completion:\n%s", out)
	}
	if strings.Contains(out.String(), "2024-01-01") {
		t.Errorf("history should default to the last 30 days:\n%s", out)
	}
	if !strings.Contains(out.String(), "2 completions in total") {
		t.Errorf("history missing totals:\n%s", out)
	}
}

func TestEntryWriteWithoutForm(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	h := addHabit(t, ctx, "Read")

	before, after := 2.0, 4.0
	mustRun(t, ctx, &EntryWriteCmd{
		Date:      "today",
		Before:    &before,
		After:     &after,
		Rate:      []string{"Read=3.5"},
		Gratitude: []string{"coffee"},
		Summary:   "good day",
		NoForm:    true,
	})

	entry, err := ctx.Journal.GetEntry(1, "2024-03-10")
	if err != nil {
		t.Fatalf("entry not saved: %v", err)
	}
	if entry.InitialRating != 2 || entry.FinalRating != 4 {
		t.Errorf("ratings = %v/%v, want 2/4", entry.InitialRating, entry.FinalRating)
	}
	if r, ok := entry.HabitRating(h.ID); !ok || r != 3.5 {
		t.Errorf("habit rating = %v, %v; want 3.5", r, ok)
	}
	if len(entry.Gratitude.Items) != 1 || entry.FinalReflection.Summary != "good day" {
		t.Errorf("text fields not saved: %+v", entry)
	}

	// Rewriting keeps earlier ratings that are not overridden.
	mustRun(t, ctx, &EntryWriteCmd{Date: "today", Feelings: "calm", NoForm: true})
	entry, _ = ctx.Journal.GetEntry(1, "2024-03-10")
	if r, _ := entry.HabitRating(h.ID); r != 3.5 {
		t.Errorf("habit rating after rewrite = %v, want 3.5", r)
	}

	out.Reset()
	mustRun(t, ctx, &EntryShowCmd{Date: "today"})
	for _, want := range []string{"2024-03-10", "coffee", "calm", "good day"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("entry show missing %q:\n%s", want, out)
		}
	}
}

func TestEntryWriteRejectsUnknownHabit(t *testing.T) {
	ctx, _ := setupTestContext(t, "daybook.json")
	err := (&EntryWriteCmd{Date: "today", Rate: []string{"Swim=3"}, NoForm: true}).Run(ctx)
	if !errors.Is(err, journal.ErrHabitNotFound) {
		t.Errorf("expected habit not found, got %v", err)
	}
	err = (&EntryWriteCmd{Date: "today", Rate: []string{"Swim"}, NoForm: true}).Run(ctx)
	if err == nil {
		t.Error("expected malformed rating error")
	}
}

func TestEntryShowMissingAndDelete(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	mustRun(t, ctx, &EntryShowCmd{Date: "2024-01-01"})
	if !strings.Contains(out.String(), "No entry for 2024-01-01") {
		t.Errorf("expected missing entry message:\n%s", out)
	}

	mustRun(t, ctx, &EntryWriteCmd{Date: "2024-01-01", NoForm: true})
	mustRun(t, ctx, &EntryDeleteCmd{Date: "2024-01-01"})
	if err := (&EntryDeleteCmd{Date: "2024-01-01"}).Run(ctx); !errors.Is(err, journal.ErrEntryNotFound) {
		t.Errorf("expected entry not found, got %v", err)
	}
}

func TestEntryListNewestFirst(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	for _, d := range []string{"2024-03-01", "2024-03-09", "2024-03-05"} {
		mustRun(t, ctx, &EntryWriteCmd{Date: d, NoForm: true})
	}
	out.Reset()
	mustRun(t, ctx, &EntryListCmd{Limit: 2})
	s := out.String()
	if strings.Contains(s, "2024-03-01") {
		t.Errorf("limit not applied:\n%s", s)
	}
	if strings.Index(s, "2024-03-09") > strings.Index(s, "2024-03-05") {
		t.Errorf("entries not newest first:\n%s", s)
	}
}

func TestEntryFormApply(t *testing.T) {
	e := models.JournalEntry{Habits: []models.HabitSnapshot{{ID: "h1", Name: "Read"}}}
	fm := newEntryFormModel(e)
	fm.Before = "1"
	fm.After = "4.5"
	fm.Ratings[0] = "3"
	fm.Gratitude = "sun\n\n  tea  \n"

	if err := fm.apply(&e); err != nil {
		t.Fatal(err)
	}
	if e.InitialRating != 1 || e.FinalRating != 4.5 || e.FinalReflection.Rating != 4.5 {
		t.Errorf("ratings not applied: %+v", e)
	}
	if e.Habits[0].Rating != 3 {
		t.Errorf("habit rating = %v, want 3", e.Habits[0].Rating)
	}
	if strings.Join(e.Gratitude.Items, ",") != "sun,tea" {
		t.Errorf("gratitude = %v", e.Gratitude.Items)
	}

	fm.Ratings[0] = "x"
	if err := fm.apply(&e); err == nil {
		t.Error("expected invalid rating error")
	}
}

func TestAnalyticsJSON(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	addHabit(t, ctx, "Read")
	before, after := 2.0, 3.0
	mustRun(t, ctx, &EntryWriteCmd{Date: "today", Before: &before, After: &after, Rate: []string{"Read=4"}, NoForm: true})

	out.Reset()
	mustRun(t, ctx, &AnalyticsCmd{Window: "14d", JSON: true})

	var report struct {
		Window     int
		DayRatings struct {
			Labels      []string
			Improvement float64
		}
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if report.Window != 14 {
		t.Errorf("window = %d, want 14", report.Window)
	}
	if len(report.DayRatings.Labels) != 1 || report.DayRatings.Improvement != 1 {
		t.Errorf("unexpected day ratings: %+v", report.DayRatings)
	}

	if err := (&AnalyticsCmd{Window: "10"}).Run(ctx); err == nil {
		t.Error("expected invalid window error")
	}
}

func TestAnalyticsEmptyJournal(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	mustRun(t, ctx, &AnalyticsCmd{})
	if !strings.Contains(out.String(), "Nothing to analyze") {
		t.Errorf("expected empty message:\n%s", out)
	}
}

func TestDashboard(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	addHabit(t, ctx, "Read")
	mustRun(t, ctx, &HabitCompleteCmd{Habit: "Read", Date: "today"})
	after := 4.0
	mustRun(t, ctx, &EntryWriteCmd{Date: "today", After: &after, NoForm: true})

	out.Reset()
	mustRun(t, ctx, &DashboardCmd{JSON: true})
	var d struct {
		JournalStreak  int
		CompletedToday int
		ActiveHabits   int
		MoodLabel      string
	}
	if err := json.Unmarshal(out.Bytes(), &d); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if d.JournalStreak != 1 || d.CompletedToday != 1 || d.ActiveHabits != 1 || d.MoodLabel != "Good" {
		t.Errorf("unexpected dashboard: %+v", d)
	}
}

func TestGoalCommands(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	mustRun(t, ctx, &GoalAddCmd{Title: "Run a 10k", Deadline: "2024-06-01", Steps: []string{"5k", "8k"}})

	g, err := ctx.findGoal("Run a 10k")
	if err != nil {
		t.Fatal(err)
	}
	mustRun(t, ctx, &GoalStepCmd{Goal: g.ID, Description: "10k"})
	mustRun(t, ctx, &GoalToggleCmd{Goal: "Run a 10k", Step: "1"})

	g, _ = ctx.Journal.GetGoal(g.ID)
	if len(g.Steps) != 3 || !g.Steps[0].Completed {
		t.Fatalf("unexpected steps: %+v", g.Steps)
	}
	if g.Progress != 33 {
		t.Errorf("progress = %v, want 33", g.Progress)
	}

	mustRun(t, ctx, &GoalCompleteCmd{Goal: g.ID})
	out.Reset()
	mustRun(t, ctx, &GoalListCmd{})
	if strings.Contains(out.String(), "Run a 10k") {
		t.Errorf("completed goal should be hidden:\n%s", out)
	}
	out.Reset()
	mustRun(t, ctx, &GoalListCmd{All: true})
	if !strings.Contains(out.String(), "Run a 10k") {
		t.Errorf("completed goal missing with --all:\n%s", out)
	}

	if err := (&GoalToggleCmd{Goal: g.ID, Step: "nope"}).Run(ctx); !errors.Is(err, journal.ErrStepNotFound) {
		t.Errorf("expected step not found, got %v", err)
	}
	mustRun(t, ctx, &GoalDeleteCmd{Goal: g.ID})
	if _, err := ctx.findGoal(g.ID); !errors.Is(err, journal.ErrGoalNotFound) {
		t.Errorf("expected goal deleted, got %v", err)
	}
}

func TestImportFromStdin(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	ctx.In = strings.NewReader(`{
		"app_habits": "[{\"id\":\"h1\",\"name\":\"Read\",\"userId\":1}]",
		"journalEntries": [{"date":"2024-03-09","userId":1,"dayRating":3,"reflectionRating":4}]
	}`)

	mustRun(t, ctx, &ImportCmd{File: "-"})
	if !strings.Contains(out.String(), "Imported 2 records") {
		t.Errorf("unexpected import output:\n%s", out)
	}
	entry, err := ctx.Journal.GetEntry(1, "2024-03-09")
	if err != nil {
		t.Fatal(err)
	}
	if entry.InitialRating != 3 || entry.FinalRating != 4 {
		t.Errorf("legacy ratings not mapped: %v/%v", entry.InitialRating, entry.FinalRating)
	}
}

func TestBackupCommands(t *testing.T) {
	for _, name := range []string{"daybook.json", "daybook.db"} {
		t.Run(name, func(t *testing.T) {
			ctx, out := setupTestContext(t, name)
			addHabit(t, ctx, "Read")

			mustRun(t, ctx, &BackupCreateCmd{})
			backups, err := ctx.backups().List()
			if err != nil || len(backups) != 1 {
				t.Fatalf("expected one backup, got %d (%v)", len(backups), err)
			}

			out.Reset()
			mustRun(t, ctx, &BackupListCmd{})
			if !strings.Contains(out.String(), filepath.Base(backups[0].Path)) {
				t.Errorf("backup list missing file:\n%s", out)
			}

			addHabit(t, ctx, "Run")
			mustRun(t, ctx, &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true})

			if err := ctx.Store.Load(); err != nil {
				t.Fatal(err)
			}
			habits, err := ctx.Journal.ListHabits(1)
			if err != nil {
				t.Fatal(err)
			}
			if len(habits) != 1 || habits[0].Name != "Read" {
				t.Errorf("restore did not roll back habits: %+v", habits)
			}
		})
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	path, err := ctx.backups().Create()
	if err != nil {
		t.Fatal(err)
	}
	ctx.In = strings.NewReader("n\n")
	mustRun(t, ctx, &BackupRestoreCmd{BackupFile: path})
	if !strings.Contains(out.String(), "Restore cancelled") {
		t.Errorf("expected cancellation:\n%s", out)
	}
}

func TestSessionCommands(t *testing.T) {
	keyring.MockInit()
	ctx, out := setupTestContext(t, "daybook.json")

	mustRun(t, ctx, &WhoamiCmd{})
	if !strings.Contains(out.String(), "Not logged in") {
		t.Errorf("expected anonymous whoami:\n%s", out)
	}

	mustRun(t, ctx, &LoginCmd{Email: "sam@example.com", UserID: 7})
	out.Reset()
	mustRun(t, ctx, &WhoamiCmd{})
	if !strings.Contains(out.String(), "sam <sam@example.com> (user 7)") {
		t.Errorf("unexpected whoami:\n%s", out)
	}

	mustRun(t, ctx, &LogoutCmd{})
	out.Reset()
	mustRun(t, ctx, &LogoutCmd{})
	if !strings.Contains(out.String(), "Not logged in") {
		t.Errorf("expected second logout to be a no-op:\n%s", out)
	}
}

func TestDoctor(t *testing.T) {
	keyring.MockInit()
	for _, name := range []string{"daybook.json", "daybook.db"} {
		t.Run(name, func(t *testing.T) {
			ctx, out := setupTestContext(t, name)
			mustRun(t, ctx, &DoctorCmd{})
			if !strings.Contains(out.String(), "All diagnostics passed") {
				t.Errorf("unexpected doctor output:\n%s", out)
			}
			if !strings.Contains(out.String(), "Backups present: WARNING") {
				t.Errorf("expected backup warning:\n%s", out)
			}
		})
	}
}

func TestDoctorReportsCorruptRecords(t *testing.T) {
	keyring.MockInit()
	ctx, out := setupTestContext(t, "daybook.json")
	if err := ctx.Store.Put(storage.KindHabits, "bad", []byte(`[1,2]`)); err != nil {
		t.Fatal(err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail")
	}
	if !strings.Contains(out.String(), "1 records are not JSON objects") {
		t.Errorf("unexpected doctor output:\n%s", out)
	}
}

func TestDebugDumpRecord(t *testing.T) {
	ctx, out := setupTestContext(t, "daybook.json")
	if err := ctx.Store.Put(storage.KindHabits, "h1", []byte(`{"name":"Read","target":{"value":0}}`)); err != nil {
		t.Fatal(err)
	}

	mustRun(t, ctx, &DebugDumpRecordCmd{Kind: "habits", ID: "h1"})
	var dump struct {
		Normalized models.Habit `json:"normalized"`
	}
	if err := json.Unmarshal(out.Bytes(), &dump); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if dump.Normalized.Target.Value != 1 || dump.Normalized.Frequency != models.FrequencyDaily {
		t.Errorf("record not normalized: %+v", dump.Normalized)
	}

	if err := (&DebugDumpRecordCmd{Kind: "tasks", ID: "x"}).Run(ctx); err == nil {
		t.Error("expected unknown kind error")
	}
}

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Store.Path = filepath.Join(dir, "daybook.json")
	cfgFile := filepath.Join(dir, "config.yaml")
	store := storage.Open(cfg.Store.Path)

	ctx := NewContext(cfg, cfgFile, store, 1)
	ctx.Out = &bytes.Buffer{}
	mustRun(t, ctx, &InitCmd{})

	if _, err := os.Stat(cfgFile); err != nil {
		t.Errorf("config not written: %v", err)
	}
	loaded, err := config.Load(cfgFile, true)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if loaded.Store.Path != cfg.Store.Path {
		t.Errorf("store path = %s, want %s", loaded.Store.Path, cfg.Store.Path)
	}

	if err := (&InitCmd{}).Run(ctx); err == nil {
		t.Error("expected second init to fail")
	}
}
