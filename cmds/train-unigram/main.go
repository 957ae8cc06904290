package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/montanaflynn/stats"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
	"github.com/subpiece/subpiece/unigram/trainer"
)

func maybeQuit(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	args := struct {
		Input          string `arg:"positional,required,help:corpus file with whitespace separated words"`
		Words          string `arg:"help:JSON word-count file to train from instead of a corpus"`
		Output         string
		VocabSize      int
		SubIterations  int
		SeedSize       int
		MaxPieceLength int
		Special        []string `arg:"help:special tokens recorded alongside the vocabulary"`
		Quiet          bool
	}{
		Output:         "unigram-vocab.json",
		VocabSize:      trainer.DefaultVocabSize,
		SubIterations:  trainer.DefaultNSubIterations,
		SeedSize:       trainer.DefaultSeedSize,
		MaxPieceLength: trainer.DefaultMaxPieceLength,
	}
	arg.MustParse(&args)

	wordCounts := make(map[string]int)
	if args.Words != "" {
		buf, err := ioutil.ReadFile(args.Words)
		maybeQuit(err)
		maybeQuit(json.Unmarshal(buf, &wordCounts))
	} else {
		f, err := os.Open(args.Input)
		maybeQuit(err)
		defer f.Close()

		var lines []string
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		maybeQuit(scanner.Err())

		err = tqdm.With(iterators.Interval(0, len(lines)), "Counting words", func(c interface{}) (brk bool) {
			trainer.ProcessTokens(wordCounts, strings.Fields(lines[c.(int)]))
			return
		})
		maybeQuit(err)
	}
	log.Println("training on", len(wordCounts), "distinct words")

	t, err := trainer.New(trainer.Options{
		VocabSize:      args.VocabSize,
		NSubIterations: args.SubIterations,
		SeedSize:       args.SeedSize,
		MaxPieceLength: args.MaxPieceLength,
		Concurrency:    runtime.NumCPU(),
		ShowProgress:   !args.Quiet,
		SpecialTokens:  args.Special,
	})
	maybeQuit(err)

	start := time.Now()
	model, special, err := t.Train(wordCounts)
	maybeQuit(err)
	log.Println("training took", time.Since(start))

	pieces := model.Pieces()
	out := struct {
		Pieces  []unigramPieceJSON `json:"pieces"`
		Special []string           `json:"special_tokens,omitempty"`
	}{Special: special}
	lengths := make([]float64, 0, len(pieces))
	for _, p := range pieces {
		out.Pieces = append(out.Pieces, unigramPieceJSON{Piece: p.Piece, Score: p.Score})
		lengths = append(lengths, float64(len([]rune(p.Piece))))
	}

	buf, err := json.MarshalIndent(out, "", "  ")
	maybeQuit(err)
	maybeQuit(ioutil.WriteFile(args.Output, buf, 0644))

	fmt.Printf("Wrote %d pieces to %s\n", len(pieces), args.Output)
	fmt.Printf("Piece length:\n")
	f, _ := stats.Mean(lengths)
	fmt.Printf("  Mean: %.2f\n", f)
	f, _ = stats.Median(lengths)
	fmt.Printf("  Median: %.0f\n", f)
	f, _ = stats.Max(lengths)
	fmt.Printf("  Max: %.0f\n", f)
}

type unigramPieceJSON struct {
	Piece string  `json:"piece"`
	Score float64 `json:"score"`
}
