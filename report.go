package main

import (
	"fmt"
	"path/filepath"

	"github.com/p7r0x7/vainpath"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/regginator/rainmaker/digest"
)

func printSummary(stats digest.Stats, path string) {
	fmt.Println()
	pterm.Success.Printf("%d combinations and %d hashes were created in %.2f seconds.\n",
		stats.Total, stats.Hashed, stats.Elapsed.Seconds())

	if len(stats.Preview) != 0 {
		fmt.Println()
		pterm.Info.Printf("Results (first %d entries):\n", len(stats.Preview))

		items := make([]pterm.BulletListItem, 0, len(stats.Preview))
		for _, p := range stats.Preview {
			items = append(items, pterm.BulletListItem{
				Level:       0,
				Text:        fmt.Sprintf("%s -> %s", p.Candidate, p.Hash),
				BulletStyle: pterm.NewStyle(pterm.FgCyan),
				Bullet:      ">",
			})
		}

		err := pterm.DefaultBulletList.WithItems(items).Render()
		_ = err
	}

	pterm.Success.Println(savedMessage(path))
}

// savedMessage names the output file exactly as created, so it can be opened
// from the message
func savedMessage(path string) string {
	return fmt.Sprintf("Results have been saved to '%s'.", path)
}

const progressTitleRunes = 32

// progressTitle labels the progress bar with the output file name, shortened
// to keep the bar on one line
func progressTitle(path string) string {
	return "Hashing into " + vainpath.Trim(filepath.Base(path), "…", progressTitleRunes)
}

func printBanner() {
	err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("RAIN", pterm.NewStyle(pterm.FgCyan)),
		putils.LettersFromString("MAKER"),
	).Render()
	_ = err

	pterm.DefaultBox.WithTitle("Welcome to the Rain(bow Table)Maker!").Println(
		"A tool to demonstrate password combinations from names and dates.")

	fmt.Print(`This program generates hash values from names and flexible date combinations.
It is designed to show how easily massive password combinations can be created
by using simple information like names, places and dates, often found through
OSINT on social media profiles.

Use it in security training to understand and show how easy it is to crack
weak passwords built from predictable information like important dates or names.
` + "\n")
}
