package multiquadlet_test

import (
	"fmt"
	"strings"

	"github.com/poly-gun/multiquadlet"
)

func Example() {
	const document = `--- example.container ---
[Container]
Image=quay.io/example/example:latest
--- example.target ---
[Install]
WantedBy=multi-user.target default.target
WantedBy=graphical.target
`

	sections, e := multiquadlet.Split("example.multiquadlet", document)
	if e != nil {
		panic(e)
	}

	for _, section := range sections {
		fmt.Println(section.Filename)
	}

	parsed, e := multiquadlet.Parse(strings.Join(sections[1].Lines, "\n"))
	if e != nil {
		panic(e)
	}

	directives := multiquadlet.Resolve(parsed)

	fmt.Println(strings.Join(directives.WantedBy, " "))

	// Output:
	// example.container
	// example.target
	// multi-user.target default.target graphical.target
}
