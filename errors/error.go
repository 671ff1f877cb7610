package errors

import "errors"

func New(text string) error {
	return errors.New(text)
}

// Wrap joins a classification error with the underlying reason. The result
// does not unwrap to classify; compare against classify directly, not via errors.Is.
func Wrap(classify, reason error) error {
	return errors.New(classify.Error() + " | " + reason.Error())
}
