package db_test

import (
	"fmt"

	"pobsd/internal/db"
	"pobsd/internal/parser"
)

func Example() {
	res := parser.ParseString(parser.Relaxed, "Game\tThe Adventures of Mr. Hat\nEngine\tgodot\nTags\tindie\n"+
		"Game\tBarony\nEngine\tCustom\nTags\tindie\nYear\t2015\n")
	database := db.New(parser.Games(res))

	for _, g := range database.SearchByName("hat").ByEngine("godot").Games() {
		fmt.Println(g.Name)
	}

	byYear, err := database.All().ByTag("indie").ByYear("2015")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(byYear.Len())
	// Output:
	// The Adventures of Mr. Hat
	// 1
}

func ExampleDatabase_Items() {
	res := parser.ParseString(parser.Relaxed, "Game\tA\nGenre\tRPG, Puzzle\nGame\tB\nGenre\tRPG\n")
	database := db.New(parser.Games(res))

	for _, item := range database.Items(db.DimGenre) {
		fmt.Printf("%s %d\n", item.Name, item.Count)
	}
	// Output:
	// Puzzle 1
	// RPG 2
}
