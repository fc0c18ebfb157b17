package main

import "github.com/insightdelivered/payslip-converter/cmd"

func main() {
	cmd.Execute()
}
