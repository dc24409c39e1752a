// Command calc is a terminal front end for the calculator.
package main

func main() {
	Execute()
}
