package main

import (
	"bytes"
	"fmt"
	"log"
	"math/big"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/limaJavier/coursegen/internal/cli"
	"github.com/limaJavier/coursegen/pkg/generator"
	"github.com/limaJavier/coursegen/pkg/model"
)

const (
	executablePath = "../../bin/coursegen"
	resultsFile    = "benchmark_results.csv"
	termStart      = "2024-09-04"
	termEnd        = "2024-12-02"
	walkLimit      = 10000 // Schedules walked in-process per scenario
)

// Scenario describes a synthetic catalog: every course has a lecture group and, depending on
// the flags, a lab and a tutorial group, each with SectionsPerGroup sections
type Scenario struct {
	Name             string
	Courses          int
	SectionsPerGroup int
	Labs             bool
	Tutorials        bool
	Seed             int64
}

type BenchmarkResult struct {
	Scenario      string  `csv:"scenario"`
	Courses       int     `csv:"courses"`
	Groups        int     `csv:"groups"`
	SearchSpace   string  `csv:"search_space"`
	Schedules     int     `csv:"schedules"`
	WalkDuration  int64   `csv:"walk_duration_ms"`
	FirstDuration int64   `csv:"first_duration_ms"`
	Memory        float32 `csv:"memory_mb"`
	CpuPercentage int64   `csv:"cpu_percent"`
	Result        string  `csv:"result"`
}

func main() {
	directory, err := os.MkdirTemp("", "coursegen-benchmark")
	if err != nil {
		log.Fatalf("cannot create working directory: %v", err)
	}
	defer os.RemoveAll(directory)

	scenarios := getScenarios()
	results := make([]BenchmarkResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		fmt.Printf("Benchmarking scenario \"%v\" with %d courses and %d sections per group\n", scenario.Name, scenario.Courses, scenario.SectionsPerGroup)

		//** Build catalog
		rows := syntheticCatalog(scenario)
		catalogFile := filepath.Join(directory, scenario.Name+".csv")
		if err := writeCatalog(catalogFile, rows); err != nil {
			log.Fatalf("cannot write catalog of scenario \"%v\": %v", scenario.Name, err)
		}
		catalog, err := model.CatalogFromCsvFile(catalogFile, ',')
		if err != nil {
			log.Fatalf("cannot parse catalog of scenario \"%v\": %v", scenario.Name, err)
		}

		//** Measure
		schedules, searchSpace, walkDuration := walk(catalog.Courses)
		courseNames := lo.Map(catalog.Courses, func(course model.Course, _ int) string { return course.Key.String() })
		firstDuration, maxMemory, cpuPercentage, result := measure(catalogFile, courseNames)

		results = append(results, BenchmarkResult{
			Scenario:      scenario.Name,
			Courses:       scenario.Courses,
			Groups:        countGroups(catalog.Courses),
			SearchSpace:   searchSpace.String(),
			Schedules:     schedules,
			WalkDuration:  walkDuration,
			FirstDuration: firstDuration,
			Memory:        maxMemory,
			CpuPercentage: cpuPercentage,
			Result:        result,
		})
	}

	toCsv(results)
}

func getScenarios() []Scenario {
	return []Scenario{
		{Name: "small", Courses: 3, SectionsPerGroup: 2, Labs: true, Seed: 1},
		{Name: "typical", Courses: 5, SectionsPerGroup: 4, Labs: true, Tutorials: true, Seed: 2},
		{Name: "wide", Courses: 6, SectionsPerGroup: 8, Seed: 3},
		{Name: "deep", Courses: 7, SectionsPerGroup: 3, Labs: true, Tutorials: true, Seed: 4},
	}
}

// Builds one CSV row per section, each with a single weekly meeting placed at random in the
// working hours of the week
func syntheticCatalog(scenario Scenario) []*model.CsvMeetingRow {
	random := rand.New(rand.NewSource(scenario.Seed))
	dayPatterns := []string{"MR", "TWF", "M", "T", "W", "R", "F", "MW", "TR"}

	prefixes := []string{"A"}
	if scenario.Labs {
		prefixes = append(prefixes, "B")
	}
	if scenario.Tutorials {
		prefixes = append(prefixes, "T")
	}

	rows := make([]*model.CsvMeetingRow, 0)
	crn := uint64(20000)
	for c := 0; c < scenario.Courses; c++ {
		for _, prefix := range prefixes {
			for s := 0; s < scenario.SectionsPerGroup; s++ {
				start := 8*60 + 30*random.Intn(20)
				length := 50 + 30*random.Intn(3)
				rows = append(rows, &model.CsvMeetingRow{
					Subject:            "BENCH",
					Code:               strconv.Itoa(100 + c),
					Title:              fmt.Sprintf("Benchmark course %d", c),
					Campus:             "Main",
					Crn:                crn,
					Sequence:           fmt.Sprintf("%v%02d", prefix, s+1),
					EnrollmentCapacity: 100,
					WaitlistCapacity:   10,
					Days:               dayPatterns[random.Intn(len(dayPatterns))],
					StartTime:          fmt.Sprintf("%02d:%02d", start/60, start%60),
					EndTime:            fmt.Sprintf("%02d:%02d", (start+length)/60, (start+length)%60),
					StartDate:          termStart,
					EndDate:            termEnd,
				})
				crn++
			}
		}
	}
	return rows
}

func writeCatalog(file string, rows []*model.CsvMeetingRow) error {
	csvFile, err := os.Create(file)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	return gocsv.MarshalFile(&rows, csvFile)
}

func countGroups(courses []model.Course) int {
	groups := 0
	for _, course := range courses {
		groups += len(lo.UniqBy(course.Components, func(component model.Component) model.ComponentType { return component.Type }))
	}
	return groups
}

// Walks up to walkLimit schedules in-process, returning how many were found, the size of the search
// space and the wall clock time in milliseconds
func walk(courses []model.Course) (schedules int, searchSpace *big.Int, duration int64) {
	gen := generator.NewGenerator(generator.RestartPolicy, nil)
	searchSpace = new(big.Int)

	start := time.Now()
	state := ""
	for schedules < walkLimit {
		page, err := generator.Navigate(gen, courses, state, false)
		if err != nil {
			log.Fatalf("an error occurred during the walk: %v", err)
		} else if page == nil {
			break
		}
		schedules++
		searchSpace = page.SearchSpace
		state = page.Next.State
	}
	return schedules, searchSpace, time.Since(start).Milliseconds()
}

func measure(catalogFile string, courseNames []string) (duration int64, maxMemory float32, cpuPercentage int64, result string) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "next",
		"--catalog", catalogFile,
		"--courses", strings.Join(courseNames, ","),
		"--log-level", "error",
		"--out", os.DevNull,
	)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	if cmd.ProcessState.ExitCode() != cli.ExitFound && cmd.ProcessState.ExitCode() != cli.ExitExhausted {
		log.Fatalf("an error occurred during the execution of \"coursegen\" with catalog \"%v\": %v\n", catalogFile, stdErr.String())
	} else if cmd.ProcessState.ExitCode() == cli.ExitExhausted {
		result = "exhausted"
	} else {
		result = "found"
	}
	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return duration, maxMemory, cpuPercentage, result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create(resultsFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / 1024
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
