// Package metadata provides the declarative facts attached to test classes and methods.
//
// # Overview
//
// A Fact is one typed assertion such as "this method covers class X" or "this test
// requires PHP >= 8.1". Facts are grouped in a Collection per class or per method.
// Resolvers never parse source; they only filter and merge collections obtained from
// a Reader.
//
// # Annotation Format
//
// The bundled Reader implementations extract facts from docblock annotations:
//
//	/**
//	 * @coversDefaultClass \App\Mailer
//	 * @covers ::send
//	 * @group mail
//	 * @requires PHP >= 8.1
//	 * @requires extension openssl
//	 * @depends testConnect
//	 */
//
// Unknown annotations (@param, @return, ...) are ignored.
//
// # Validation Rules
//
//   - At most one @coversDefaultClass and one @usesDefaultClass per scope
//   - Coverage, group and dependency targets must be non-empty
//   - @requires operators must be one of <, <=, >, >=, ==, != (or their word aliases)
//   - @requires constraints must parse as version constraints
//
// # Caching
//
// Store wraps any Reader in a read-through cache keyed by class name.
// Entries are never invalidated: metadata for a loaded class cannot change.
//
// # Usage
//
//	facts, err := metadata.ExtractAndValidate(docComment, metadata.Source{
//	    ClassName: `App\Tests\MailerTest`,
//	    File:      "tests/MailerTest.php",
//	    Line:      12,
//	}, metadata.LevelMethod)
//	if err != nil {
//	    return err
//	}
//	groups := metadata.OfType[metadata.Group](facts)
package metadata
