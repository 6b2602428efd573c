package domain

// ExampleTags is the fixed catalog inserted into an empty tag table when the
// schema is first created.
var ExampleTags = []string{
	"123456",
	"password123",
	"123456789",
	"password",
	"iloveyou",
	"princess",
	"abc123",
	"babygirl",
	"qwerty",
	"iloveu",
	"chocolate",
	"butterfly",
	"liverpool",
	"football",
	"superman",
	"987654321",
	"spongebob",
	"beautiful",
	"blink182",
	"babygurl",
}
