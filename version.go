package cpfauth

const VERSION = "v0.2.0"
