package security

const (
	MinTemporaryPasswordLength = 8

	upperAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerAlphabet = "abcdefghijkmnopqrstuvwxyz"
	digitAlphabet = "23456789"
)

// TemporaryPassword returns a password without look-alike characters that
// always holds an upper case letter, a lower case letter and a digit.
func TemporaryPassword(length int) (string, error) {
	if length < MinTemporaryPasswordLength {
		length = MinTemporaryPasswordLength
	}

	value := make([]byte, 0, length)
	for _, alphabet := range []string{upperAlphabet, lowerAlphabet, digitAlphabet} {
		char, err := RandomString(1, alphabet)
		if err != nil {
			return "", err
		}
		value = append(value, char[0])
	}
	rest, err := RandomString(length-len(value), upperAlphabet+lowerAlphabet+digitAlphabet)
	if err != nil {
		return "", err
	}
	value = append(value, rest...)

	// Fisher-Yates, so the guaranteed classes do not always lead.
	for index := len(value) - 1; index > 0; index-- {
		swap, err := randomIndex(index + 1)
		if err != nil {
			return "", err
		}
		value[index], value[swap] = value[swap], value[index]
	}
	return string(value), nil
}
